package listings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/modelmart/modelmart-backend/pkg/db/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.ModelListing{}))
	return NewRepository(conn)
}

func seedListing(t *testing.T, repo *Repository, name, category, email string, createdAt time.Time) *models.ModelListing {
	t.Helper()

	listing := &models.ModelListing{
		ID:         uuid.New(),
		Name:       name,
		Category:   category,
		Price:      decimal.NewFromInt(10),
		OwnerEmail: email,
		CreatedAt:  createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), listing))
	return listing
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := newTestRepository(t)
	listing := seedListing(t, repo, "classifier", "vision", "dev@example.com", time.Now())

	found, err := repo.FindByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "classifier", found.Name)
	assert.Equal(t, "dev@example.com", found.OwnerEmail)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListFiltersAndOrder(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Now().Add(-time.Hour)
	seedListing(t, repo, "oldest", "vision", "a@example.com", base)
	seedListing(t, repo, "middle", "nlp", "b@example.com", base.Add(time.Minute))
	newest := seedListing(t, repo, "newest", "vision", "a@example.com", base.Add(2*time.Minute))

	rows, err := repo.List(context.Background(), ListFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, newest.ID, rows[0].ID)

	vision, err := repo.List(context.Background(), ListFilters{Category: "vision"})
	require.NoError(t, err)
	assert.Len(t, vision, 2)

	byEmail, err := repo.List(context.Background(), ListFilters{OwnerEmail: "b@example.com"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "middle", byEmail[0].Name)

	paged, err := repo.List(context.Background(), ListFilters{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "middle", paged[0].Name)
}

func TestRepositoryUpdateFields(t *testing.T) {
	repo := newTestRepository(t)
	listing := seedListing(t, repo, "before", "vision", "dev@example.com", time.Now())

	matched, err := repo.UpdateFields(context.Background(), listing.ID, map[string]any{"name": "after"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	found, err := repo.FindByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", found.Name)

	matched, err = repo.UpdateFields(context.Background(), uuid.New(), map[string]any{"name": "ghost"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)
}

func TestRepositoryDelete(t *testing.T) {
	repo := newTestRepository(t)
	listing := seedListing(t, repo, "doomed", "vision", "dev@example.com", time.Now())

	matched, err := repo.Delete(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	matched, err = repo.Delete(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)
}

func TestRepositoryIncrementPurchaseCount(t *testing.T) {
	repo := newTestRepository(t)
	listing := seedListing(t, repo, "counted", "vision", "dev@example.com", time.Now())

	matched, err := repo.IncrementPurchaseCount(context.Background(), listing.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	found, err := repo.FindByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.PurchaseCount)

	matched, err = repo.IncrementPurchaseCount(context.Background(), listing.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	// The guard refuses to push the counter negative.
	matched, err = repo.IncrementPurchaseCount(context.Background(), listing.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)

	matched, err = repo.IncrementPurchaseCount(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)
}
