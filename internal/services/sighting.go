package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/birdkeep/birdkeep/pkg/models"
)

// SightingFilter holds the optional search criteria for sightings. A
// zero-value field contributes no constraint; present fields are combined
// with AND. From and To are inclusive bounds, each independently optional.
type SightingFilter struct {
	BirdName string           // Case-insensitive exact match on the referenced bird's name.
	Location string           // Case-insensitive substring match on the location.
	From     *models.DateTime // Observation timestamp >= From.
	To       *models.DateTime // Observation timestamp <= To.
}

// SightingRepository provides CRUD and filtered list access to sightings.
// Reads attach the referenced bird snapshot when it still resolves.
type SightingRepository interface {
	// Get returns a single sighting by id.
	Get(ctx context.Context, id int64) (*models.Sighting, error)

	// List returns one page of sightings matching the filter plus the
	// total matching count.
	List(ctx context.Context, filter SightingFilter, req PageRequest) ([]models.Sighting, int64, error)

	// Create inserts a new sighting and fills in its store-assigned id.
	Create(ctx context.Context, sighting *models.Sighting) error

	// Update replaces all mutable fields of an existing sighting.
	Update(ctx context.Context, sighting *models.Sighting) error

	// Delete removes a sighting by id.
	Delete(ctx context.Context, id int64) error

	// Exists reports whether a sighting with the given id exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// Count returns the number of stored sightings.
	Count(ctx context.Context) (int64, error)
}

// Compile-time interface guard.
var _ SightingRepository = (*SQLiteSightingRepository)(nil)

// SQLiteSightingRepository implements SightingRepository against the
// sightings table, resolving bird snapshots through a LEFT JOIN.
type SQLiteSightingRepository struct {
	db *sql.DB
}

// NewSQLiteSightingRepository creates a SightingRepository. The sightings
// table must already exist (created by services.Migrations).
func NewSQLiteSightingRepository(db *sql.DB) *SQLiteSightingRepository {
	return &SQLiteSightingRepository{db: db}
}

// sightingColumns selects the sighting row plus the nullable bird snapshot.
// The LEFT JOIN keeps sightings readable after their bird is deleted; the
// snapshot columns come back NULL and the Bird field stays nil.
const sightingColumns = `s.id, s.bird_id, s.location, s.date_time,
	b.id, b.name, b.color, b.weight, b.height`

const sightingFrom = `sightings s LEFT JOIN birds b ON b.id = s.bird_id`

var sightingSortColumns = map[string]string{
	"id":       "s.id",
	"birdId":   "s.bird_id",
	"location": "s.location",
	"dateTime": "s.date_time",
}

func (r *SQLiteSightingRepository) Get(ctx context.Context, id int64) (*models.Sighting, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sightingColumns+` FROM `+sightingFrom+` WHERE s.id = ?`, id)
	s, err := scanSighting(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get sighting %d: %w", id, err)
	}
	return s, nil
}

func (r *SQLiteSightingRepository) List(ctx context.Context, filter SightingFilter, req PageRequest) ([]models.Sighting, int64, error) {
	req = normalizePageRequest(req)

	where := "1=1"
	var args []any

	if filter.BirdName != "" {
		// Traverses the weak reference. A sighting whose bird no longer
		// exists cannot match a bird-name criterion and is excluded.
		where += " AND s.bird_id IN (SELECT id FROM birds WHERE LOWER(name) = ?)"
		args = append(args, strings.ToLower(filter.BirdName))
	}
	if filter.Location != "" {
		where += " AND LOWER(s.location) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.From != nil {
		where += " AND s.date_time >= ?"
		args = append(args, filter.From.String())
	}
	if filter.To != nil {
		where += " AND s.date_time <= ?"
		args = append(args, filter.To.String())
	}

	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sightings s WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count sightings: %w", err)
	}

	sortCol := sightingSortColumns[req.Sort]
	if sortCol == "" {
		sortCol = "s.id"
	}
	orderDir := "ASC"
	if req.Order == "desc" {
		orderDir = "DESC"
	}

	queryArgs := make([]any, 0, len(args)+2)
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, req.Size, req.Offset())

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY %s %s, s.id ASC LIMIT ? OFFSET ?",
		sightingColumns, sightingFrom, where, sortCol, orderDir,
	)

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sightings: %w", err)
	}
	defer rows.Close()

	var sightings []models.Sighting
	for rows.Next() {
		s, err := scanSighting(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sighting row: %w", err)
		}
		sightings = append(sightings, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sightings: %w", err)
	}

	return sightings, total, nil
}

func (r *SQLiteSightingRepository) Create(ctx context.Context, sighting *models.Sighting) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sightings (bird_id, location, date_time) VALUES (?, ?, ?)`,
		sighting.BirdID, sighting.Location, sighting.DateTime.String(),
	)
	if err != nil {
		return fmt.Errorf("create sighting: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create sighting id: %w", err)
	}
	sighting.ID = id
	return nil
}

func (r *SQLiteSightingRepository) Update(ctx context.Context, sighting *models.Sighting) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sightings SET bird_id = ?, location = ?, date_time = ? WHERE id = ?`,
		sighting.BirdID, sighting.Location, sighting.DateTime.String(), sighting.ID,
	)
	if err != nil {
		return fmt.Errorf("update sighting %d: %w", sighting.ID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteSightingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sightings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sighting %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteSightingRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM sightings WHERE id = ?`, id,
	).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("sighting exists %d: %w", id, err)
	}
	return true, nil
}

func (r *SQLiteSightingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sightings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sightings: %w", err)
	}
	return n, nil
}

// scanSighting reads one joined row. scan is either (*sql.Row).Scan or
// (*sql.Rows).Scan.
func scanSighting(scan func(dest ...any) error) (*models.Sighting, error) {
	var s models.Sighting
	var dateTime string
	var birdID sql.NullInt64
	var name, color sql.NullString
	var weight, height sql.NullFloat64

	err := scan(
		&s.ID, &s.BirdID, &s.Location, &dateTime,
		&birdID, &name, &color, &weight, &height,
	)
	if err != nil {
		return nil, err
	}

	dt, err := models.ParseDateTime(dateTime)
	if err != nil {
		return nil, err
	}
	s.DateTime = dt

	if birdID.Valid {
		s.Bird = &models.Bird{
			ID:     birdID.Int64,
			Name:   name.String,
			Color:  color.String,
			Weight: weight.Float64,
			Height: height.Float64,
		}
	}
	return &s, nil
}
