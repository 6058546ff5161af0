package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stwalsh4118/homematch/api/internal/database"
	"github.com/stwalsh4118/homematch/api/internal/models"
)

// uniqueViolation is the SQLSTATE Postgres reports for duplicate keys.
const uniqueViolation = "23505"

// ErrDuplicatePropertyID is returned when a listing has already been saved.
var ErrDuplicatePropertyID = errors.New("property already saved")

// SavedPropertyRepository defines the data access operations for saved favorites.
type SavedPropertyRepository interface {
	// Create inserts a saved property. ID and SavedAt must already be set.
	// Returns ErrDuplicatePropertyID if the listing is already saved.
	Create(ctx context.Context, saved *models.SavedProperty) error

	// FindByPropertyID returns the saved snapshot of a listing.
	// Returns nil, nil if the listing is not saved (not an error).
	FindByPropertyID(ctx context.Context, propertyID int) (*models.SavedProperty, error)

	// List returns all saved properties, most recently saved first.
	// Returns an empty slice if nothing is saved.
	List(ctx context.Context) ([]models.SavedProperty, error)

	// DeleteByPropertyID removes a saved listing and reports whether it existed.
	DeleteByPropertyID(ctx context.Context, propertyID int) (bool, error)
}

// savedPropertyRepository is the concrete implementation of SavedPropertyRepository.
type savedPropertyRepository struct {
	db *database.Database
}

// NewSavedPropertyRepository creates a new instance of SavedPropertyRepository.
func NewSavedPropertyRepository(db *database.Database) SavedPropertyRepository {
	return &savedPropertyRepository{
		db: db,
	}
}

const savedPropertyColumns = `
	id,
	property_id,
	title,
	price,
	location,
	bedrooms,
	bathrooms,
	size_sqft,
	amenities,
	image_url,
	match_score,
	reasoning,
	saved_at`

func (r *savedPropertyRepository) Create(ctx context.Context, saved *models.SavedProperty) error {
	query := `INSERT INTO saved_properties (` + savedPropertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	amenities := saved.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	_, err := r.db.Pool.Exec(ctx, query,
		saved.ID,
		saved.PropertyID,
		saved.Title,
		saved.Price,
		saved.Location,
		saved.Bedrooms,
		saved.Bathrooms,
		saved.SizeSqft,
		amenities,
		saved.ImageURL,
		saved.MatchScore,
		saved.Reasoning,
		saved.SavedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: property %d", ErrDuplicatePropertyID, saved.PropertyID)
		}
		return fmt.Errorf("failed to insert saved property %d: %w", saved.PropertyID, err)
	}

	return nil
}

func (r *savedPropertyRepository) FindByPropertyID(ctx context.Context, propertyID int) (*models.SavedProperty, error) {
	query := `SELECT ` + savedPropertyColumns + ` FROM saved_properties WHERE property_id = $1`

	saved, err := scanSavedProperty(r.db.Pool.QueryRow(ctx, query, propertyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query saved property %d: %w", propertyID, err)
	}

	return saved, nil
}

func (r *savedPropertyRepository) List(ctx context.Context) ([]models.SavedProperty, error) {
	query := `SELECT ` + savedPropertyColumns + ` FROM saved_properties ORDER BY saved_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved properties: %w", err)
	}
	defer rows.Close()

	results := []models.SavedProperty{}
	for rows.Next() {
		saved, err := scanSavedProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved property row: %w", err)
		}
		results = append(results, *saved)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved property rows: %w", err)
	}

	return results, nil
}

func (r *savedPropertyRepository) DeleteByPropertyID(ctx context.Context, propertyID int) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM saved_properties WHERE property_id = $1`, propertyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete saved property %d: %w", propertyID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanSavedProperty reads one row selected with savedPropertyColumns.
func scanSavedProperty(row pgx.Row) (*models.SavedProperty, error) {
	var saved models.SavedProperty
	err := row.Scan(
		&saved.ID,
		&saved.PropertyID,
		&saved.Title,
		&saved.Price,
		&saved.Location,
		&saved.Bedrooms,
		&saved.Bathrooms,
		&saved.SizeSqft,
		&saved.Amenities,
		&saved.ImageURL,
		&saved.MatchScore,
		&saved.Reasoning,
		&saved.SavedAt,
	)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
