package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/birdkeep/birdkeep/pkg/models"
)

// BirdFilter holds the optional search criteria for birds. A zero-value
// field contributes no constraint; present fields are combined with AND.
type BirdFilter struct {
	Name  string // Case-insensitive substring match on the name.
	Color string // Case-insensitive exact match on the color.
}

// BirdRepository provides CRUD and filtered list access to bird records.
type BirdRepository interface {
	// Get returns a single bird by id.
	Get(ctx context.Context, id int64) (*models.Bird, error)

	// List returns one page of birds matching the filter plus the total
	// matching count. It is the single read path for both plain listing
	// (zero filter) and search (populated filter).
	List(ctx context.Context, filter BirdFilter, req PageRequest) ([]models.Bird, int64, error)

	// Create inserts a new bird and fills in its store-assigned id.
	Create(ctx context.Context, bird *models.Bird) error

	// Update replaces all mutable fields of an existing bird.
	Update(ctx context.Context, bird *models.Bird) error

	// Delete removes a bird by id.
	Delete(ctx context.Context, id int64) error

	// Exists reports whether a bird with the given id is stored.
	Exists(ctx context.Context, id int64) (bool, error)

	// Count returns the number of stored birds.
	Count(ctx context.Context) (int64, error)
}

// Compile-time interface guard.
var _ BirdRepository = (*SQLiteBirdRepository)(nil)

// SQLiteBirdRepository implements BirdRepository against the birds table.
type SQLiteBirdRepository struct {
	db *sql.DB
}

// NewSQLiteBirdRepository creates a BirdRepository. The birds table must
// already exist (created by services.Migrations).
func NewSQLiteBirdRepository(db *sql.DB) *SQLiteBirdRepository {
	return &SQLiteBirdRepository{db: db}
}

const birdColumns = `id, name, color, weight, height`

// birdSortColumns maps request sort fields to columns. Unknown fields fall
// back to id so a bad sort never becomes a SQL injection vector.
var birdSortColumns = map[string]string{
	"id":     "id",
	"name":   "name",
	"color":  "color",
	"weight": "weight",
	"height": "height",
}

func (r *SQLiteBirdRepository) Get(ctx context.Context, id int64) (*models.Bird, error) {
	var b models.Bird
	err := r.db.QueryRowContext(ctx,
		`SELECT `+birdColumns+` FROM birds WHERE id = ?`, id,
	).Scan(&b.ID, &b.Name, &b.Color, &b.Weight, &b.Height)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get bird %d: %w", id, err)
	}
	return &b, nil
}

func (r *SQLiteBirdRepository) List(ctx context.Context, filter BirdFilter, req PageRequest) ([]models.Bird, int64, error) {
	req = normalizePageRequest(req)

	// Fold present criteria into a single parameterized conjunction.
	// An absent criterion adds nothing, so no criteria at all leaves the
	// always-true filter and this path behaves exactly like a plain list.
	where := "1=1"
	var args []any

	if filter.Name != "" {
		where += " AND LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Color != "" {
		where += " AND LOWER(color) = ?"
		args = append(args, strings.ToLower(filter.Color))
	}

	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM birds WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count birds: %w", err)
	}

	sortCol := birdSortColumns[req.Sort]
	if sortCol == "" {
		sortCol = "id"
	}
	orderDir := "ASC"
	if req.Order == "desc" {
		orderDir = "DESC"
	}

	queryArgs := make([]any, 0, len(args)+2)
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, req.Size, req.Offset())

	// Ascending id as final sort key keeps ties stable across pages.
	query := fmt.Sprintf(
		"SELECT %s FROM birds WHERE %s ORDER BY %s %s, id ASC LIMIT ? OFFSET ?",
		birdColumns, where, sortCol, orderDir,
	)

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list birds: %w", err)
	}
	defer rows.Close()

	var birds []models.Bird
	for rows.Next() {
		var b models.Bird
		if err := rows.Scan(&b.ID, &b.Name, &b.Color, &b.Weight, &b.Height); err != nil {
			return nil, 0, fmt.Errorf("scan bird row: %w", err)
		}
		birds = append(birds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate birds: %w", err)
	}

	return birds, total, nil
}

func (r *SQLiteBirdRepository) Create(ctx context.Context, bird *models.Bird) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO birds (name, color, weight, height) VALUES (?, ?, ?, ?)`,
		bird.Name, bird.Color, bird.Weight, bird.Height,
	)
	if err != nil {
		return fmt.Errorf("create bird: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create bird id: %w", err)
	}
	bird.ID = id
	return nil
}

func (r *SQLiteBirdRepository) Update(ctx context.Context, bird *models.Bird) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE birds SET name = ?, color = ?, weight = ?, height = ? WHERE id = ?`,
		bird.Name, bird.Color, bird.Weight, bird.Height, bird.ID,
	)
	if err != nil {
		return fmt.Errorf("update bird %d: %w", bird.ID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteBirdRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM birds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bird %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteBirdRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM birds WHERE id = ?`, id,
	).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("bird exists %d: %w", id, err)
	}
	return true, nil
}

func (r *SQLiteBirdRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM birds`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count birds: %w", err)
	}
	return n, nil
}
