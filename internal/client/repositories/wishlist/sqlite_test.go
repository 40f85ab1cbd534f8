package wishlist

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/aprilian/storymap/internal/client/models"
	"github.com/aprilian/storymap/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE wishlist (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  photo_url TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT '',
  lat REAL,
  lon REAL,
  added_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE INDEX idx_wishlist_name ON wishlist (name);
`)
	require.NoError(t, err)

	return db
}

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	r := NewSQLiteRepository(setupDB(t))
	r.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func ptr(v float64) *float64 { return &v }

func sampleStory(id string) models.Story {
	return models.Story{
		ID:          id,
		Name:        "Dimas",
		Description: "A story from the city center",
		PhotoURL:    "https://example.com/photos/" + id + ".jpg",
		CreatedAt:   "2024-04-30T09:00:00.000Z",
		Lat:         ptr(-6.2),
		Lon:         ptr(106.8),
	}
}

func TestAdd_InsertsAndStampsAddedAt(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	saved, err := r.Add(ctx, sampleStory("s1"))
	require.NoError(t, err)
	assert.Equal(t, "s1", saved.ID)
	assert.Equal(t, "2024-05-01T12:00:00Z", saved.AddedAt)
	assert.Empty(t, saved.UpdatedAt)

	got, found, err := r.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, got)
}

func TestAdd_DefaultsMissingCreatedAt(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	story := sampleStory("s1")
	story.CreatedAt = ""

	saved, err := r.Add(ctx, story)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T12:00:00Z", saved.CreatedAt)

	got, found, err := r.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024-05-01T12:00:00Z", got.CreatedAt)
}

func TestAdd_DuplicateFails(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	_, err := r.Add(ctx, sampleStory("s1"))
	require.NoError(t, err)

	_, err = r.Add(ctx, sampleStory("s1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicate)
}

func TestAdd_WithoutLocation(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	story := sampleStory("s1")
	story.Lat = nil
	story.Lon = nil

	_, err := r.Add(ctx, story)
	require.NoError(t, err)

	got, found, err := r.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, got.Lat)
	assert.Nil(t, got.Lon)
}

func TestUpdate_PreservesAddedAt(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	added, err := r.Add(ctx, sampleStory("s1"))
	require.NoError(t, err)

	r.now = func() time.Time { return time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC) }

	updated := sampleStory("s1")
	updated.Description = "An updated description of the same story"
	saved, err := r.Update(ctx, updated)
	require.NoError(t, err)

	assert.Equal(t, added.AddedAt, saved.AddedAt)
	assert.Equal(t, "2024-05-02T08:30:00Z", saved.UpdatedAt)
	assert.Equal(t, updated.Description, saved.Description)

	got, found, err := r.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, got)
}

func TestUpdate_MissingStoryFails(t *testing.T) {
	r := newRepo(t)

	_, err := r.Update(context.Background(), sampleStory("nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRemove_ReturnsDeletedRecord(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	added, err := r.Add(ctx, sampleStory("s1"))
	require.NoError(t, err)

	removed, err := r.Remove(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, added, removed)

	_, found, err := r.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemove_MissingStoryFails(t *testing.T) {
	r := newRepo(t)

	_, err := r.Remove(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRemoveMany_PartialFailure(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	_, err := r.Add(ctx, sampleStory("s1"))
	require.NoError(t, err)
	_, err = r.Add(ctx, sampleStory("s2"))
	require.NoError(t, err)

	results, err := r.RemoveMany(ctx, []string{"s1", "missing", "s2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3")
	require.Len(t, results, 3)

	byID := make(map[string]RemoveResult)
	for _, res := range results {
		byID[res.ID] = res
	}
	assert.NoError(t, byID["s1"].Err)
	assert.NoError(t, byID["s2"].Err)
	assert.ErrorIs(t, byID["missing"].Err, common.ErrNotFound)

	// both existing stories are gone despite the failure in between
	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRemoveMany_AllSucceed(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	_, err := r.Add(ctx, sampleStory("s1"))
	require.NoError(t, err)
	_, err = r.Add(ctx, sampleStory("s2"))
	require.NoError(t, err)

	results, err := r.RemoveMany(ctx, []string{"s1", "s2"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.NoError(t, res.Err)
		assert.NotNil(t, res.Story)
	}
}

func TestClear_EmptiesStore(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	_, err := r.Add(ctx, sampleStory("s1"))
	require.NoError(t, err)
	_, err = r.Add(ctx, sampleStory("s2"))
	require.NoError(t, err)

	require.NoError(t, r.Clear(ctx))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetAll_ReturnsEverySavedStory(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	_, err := r.Add(ctx, sampleStory("s1"))
	require.NoError(t, err)
	_, err = r.Add(ctx, sampleStory("s2"))
	require.NoError(t, err)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)

	ids := make(map[string]struct{})
	for _, s := range all {
		ids[s.ID] = struct{}{}
	}
	assert.Equal(t, map[string]struct{}{"s1": {}, "s2": {}}, ids)
}

func TestFindByName_ExactMatch(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	first := sampleStory("s1")
	second := sampleStory("s2")
	second.Name = "Sari"
	_, err := r.Add(ctx, first)
	require.NoError(t, err)
	_, err = r.Add(ctx, second)
	require.NoError(t, err)

	got, err := r.FindByName(ctx, "Sari")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ID)

	// no partial matching
	got, err = r.FindByName(ctx, "Sar")
	require.NoError(t, err)
	assert.Empty(t, got)
}
