// Package catalog loads the raw listing sources from disk.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/stwalsh4118/homematch/api/internal/logger"
	"github.com/stwalsh4118/homematch/api/internal/models"
)

// Source file names inside the data directory.
const (
	BasicsFile          = "property_basics.json"
	CharacteristicsFile = "property_characteristics.json"
	ImagesFile          = "property_images.json"
)

// Source holds the three independently keyed record sets.
type Source struct {
	Basics          []models.PropertyBasic
	Characteristics []models.PropertyCharacteristics
	Images          []models.PropertyImage
}

// Loader reads listing sources from a directory.
type Loader interface {
	// Load reads all three sources. A missing or malformed file is logged and
	// treated as an empty collection. Only context cancellation is returned as an error.
	Load(ctx context.Context) (*Source, error)

	// Check verifies that every source file exists and parses.
	Check(ctx context.Context) error
}

// fileLoader is the concrete implementation of Loader.
type fileLoader struct {
	dir string
	log *logger.Logger
}

// NewLoader creates a Loader reading from dir.
func NewLoader(dir string, log *logger.Logger) Loader {
	return &fileLoader{
		dir: dir,
		log: log,
	}
}

// Load reads the sources fresh on every call.
func (l *fileLoader) Load(ctx context.Context) (*Source, error) {
	basics, err := loadOrEmpty[models.PropertyBasic](ctx, l, BasicsFile)
	if err != nil {
		return nil, err
	}
	characteristics, err := loadOrEmpty[models.PropertyCharacteristics](ctx, l, CharacteristicsFile)
	if err != nil {
		return nil, err
	}
	images, err := loadOrEmpty[models.PropertyImage](ctx, l, ImagesFile)
	if err != nil {
		return nil, err
	}

	src := &Source{
		Basics:          basics,
		Characteristics: characteristics,
		Images:          images,
	}

	l.log.Debug("Catalog loaded", map[string]interface{}{
		"dir":             l.dir,
		"basics":          len(src.Basics),
		"characteristics": len(src.Characteristics),
		"images":          len(src.Images),
	})

	return src, nil
}

// Check reads and parses each source file, returning the first failure.
func (l *fileLoader) Check(ctx context.Context) error {
	for _, name := range []string{BasicsFile, CharacteristicsFile, ImagesFile} {
		var records []json.RawMessage
		if err := l.readJSON(ctx, name, &records); err != nil {
			return err
		}
	}
	return nil
}

// loadOrEmpty decodes the named file, returning an empty slice on read or parse failure.
func loadOrEmpty[T any](ctx context.Context, l *fileLoader, name string) ([]T, error) {
	var records []T
	err := l.readJSON(ctx, name, &records)
	if err == nil {
		if records == nil {
			records = []T{}
		}
		return records, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	fields := map[string]interface{}{
		"file": name,
		"dir":  l.dir,
	}
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Warn("Catalog source missing, using empty collection", fields)
	} else {
		l.log.Error("Failed to load catalog source, using empty collection", err, fields)
	}
	return []T{}, nil
}

func (l *fileLoader) readJSON(ctx context.Context, name string, dst interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
