package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

func TestContactRepo_CreateAssignsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Contact{
		ID:    "caller-supplied",
		Name:  "Ana",
		Email: "a@x.com",
		Phone: "(11) 98888-7777",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "caller-supplied", created.ID)
	assert.Len(t, created.ID, 22)
	assert.Equal(t, "Ana", created.Name)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "(11) 98888-7777", got.Phone)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestContactRepo_CreateUniqueIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		c := addTestContact(t, repo, "contact")
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestContactRepo_ListAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	empty, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first := addTestContact(t, repo, "zeca")
	second := addTestContact(t, repo, "ana")
	third := addTestContact(t, repo, "bia")

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Insertion order, not name order.
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, third.ID, list[2].ID)
}

func TestContactRepo_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	require.ErrorIs(t, err, driven.ErrContactNotFound)
}

func TestContactRepo_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	created := addTestContact(t, repo, "ana")

	later := created.CreatedAt.Add(time.Hour)
	repo.now = func() time.Time { return later }

	updated := created
	updated.Name = "Ana Maria"
	updated.Phone = "(21) 91234-5678"
	require.NoError(t, repo.Update(ctx, updated))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)
	assert.Equal(t, "(21) 91234-5678", got.Phone)
	assert.Equal(t, created.Email, got.Email)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, later.UTC().Equal(got.UpdatedAt))
}

func TestContactRepo_Update_SameValuesStillSucceeds(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)

	created := addTestContact(t, repo, "ana")
	require.NoError(t, repo.Update(context.Background(), created))
}

func TestContactRepo_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)

	err := repo.Update(context.Background(), model.Contact{ID: "missing", Name: "x", Email: "y", Phone: "z"})
	require.ErrorIs(t, err, driven.ErrContactNotFound)
}

func TestContactRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	keep := addTestContact(t, repo, "keep")
	gone := addTestContact(t, repo, "gone")

	require.NoError(t, repo.Delete(ctx, gone.ID))

	list, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	// Second delete of the same ID reports not found.
	require.ErrorIs(t, repo.Delete(ctx, gone.ID), driven.ErrContactNotFound)
}

func TestContactRepo_UpdateAfterDelete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	c := addTestContact(t, repo, "ana")
	require.NoError(t, repo.Delete(ctx, c.ID))

	c.Name = "changed"
	require.ErrorIs(t, repo.Update(ctx, c), driven.ErrContactNotFound)
}

func TestDB_Ping(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Ping(context.Background()))
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{
		"2026-02-10T12:00:00.000000000Z",
		"2026-02-10T12:00:00Z",
		"2026-02-10 12:00:00",
	} {
		got, err := parseTime(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2026, got.Year())
	}

	_, err := parseTime("yesterday")
	require.Error(t, err)
}
