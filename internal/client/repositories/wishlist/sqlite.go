package wishlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aprilian/storymap/internal/client/models"
	"github.com/aprilian/storymap/internal/common"
	"github.com/aprilian/storymap/internal/dbx"
	"golang.org/x/sync/errgroup"
)

const timeFormat = time.RFC3339

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) timestamp() string {
	return r.now().UTC().Format(timeFormat)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *SQLiteRepository) Add(ctx context.Context, story models.Story) (*models.SavedStory, error) {
	if story.ID == "" {
		return nil, fmt.Errorf("story id is required")
	}

	saved := &models.SavedStory{Story: story, AddedAt: r.timestamp()}
	if saved.CreatedAt == "" {
		saved.CreatedAt = saved.AddedAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wishlist (id, name, description, photo_url, created_at, lat, lon, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, saved.ID, saved.Name, saved.Description, saved.PhotoURL, saved.CreatedAt,
		saved.Lat, saved.Lon, saved.AddedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("story %s: %w", story.ID, common.ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add story %s: %w", story.ID, err)
	}
	return saved, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, story models.Story) (*models.SavedStory, error) {
	var saved *models.SavedStory

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		existing, err := scanStory(tx.QueryRowContext(ctx,
			`SELECT id, name, description, photo_url, created_at, lat, lon, added_at, updated_at
			 FROM wishlist WHERE id = ?`, story.ID))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("story %s: %w", story.ID, common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to read story %s: %w", story.ID, err)
		}

		saved = &models.SavedStory{
			Story:     story,
			AddedAt:   existing.AddedAt,
			UpdatedAt: r.timestamp(),
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE wishlist
			SET name = ?, description = ?, photo_url = ?, created_at = ?,
			    lat = ?, lon = ?, updated_at = ?
			WHERE id = ?
		`, saved.Name, saved.Description, saved.PhotoURL, saved.CreatedAt,
			saved.Lat, saved.Lon, saved.UpdatedAt, saved.ID)
		if err != nil {
			return fmt.Errorf("failed to update story %s: %w", story.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) (*models.SavedStory, error) {
	var saved *models.SavedStory

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		existing, err := scanStory(tx.QueryRowContext(ctx,
			`SELECT id, name, description, photo_url, created_at, lat, lon, added_at, updated_at
			 FROM wishlist WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("story %s: %w", id, common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to read story %s: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM wishlist WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to remove story %s: %w", id, err)
		}

		saved = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *SQLiteRepository) RemoveMany(ctx context.Context, ids []string) ([]RemoveResult, error) {
	results := make([]RemoveResult, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			story, err := r.Remove(ctx, id)
			results[i] = RemoveResult{ID: id, Story: story, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return results, fmt.Errorf("failed to remove %d of %d stories", failed, len(ids))
	}
	return results, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM wishlist`); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.SavedStory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, photo_url, created_at, lat, lon, added_at, updated_at
		 FROM wishlist`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer rows.Close()

	return collectStories(rows)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.SavedStory, bool, error) {
	saved, err := scanStory(r.db.QueryRowContext(ctx,
		`SELECT id, name, description, photo_url, created_at, lat, lon, added_at, updated_at
		 FROM wishlist WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get story %s: %w", id, err)
	}
	return saved, true, nil
}

func (r *SQLiteRepository) FindByName(ctx context.Context, name string) ([]models.SavedStory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, photo_url, created_at, lat, lon, added_at, updated_at
		 FROM wishlist WHERE name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find stories by name %q: %w", name, err)
	}
	defer rows.Close()

	return collectStories(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*models.SavedStory, error) {
	var s models.SavedStory
	var lat, lon sql.NullFloat64
	var updatedAt sql.NullString

	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.PhotoURL, &s.CreatedAt,
		&lat, &lon, &s.AddedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if lat.Valid {
		s.Lat = &lat.Float64
	}
	if lon.Valid {
		s.Lon = &lon.Float64
	}
	if updatedAt.Valid {
		s.UpdatedAt = updatedAt.String
	}
	return &s, nil
}

func collectStories(rows *sql.Rows) ([]models.SavedStory, error) {
	var result []models.SavedStory
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist row: %w", err)
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wishlist rows: %w", err)
	}
	return result, nil
}
