package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/recommendation/domain/entity"
	"erasmus_backend/internal/shared/apperr"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&authentity.User{}, &entity.Recommendation{}, &entity.Image{}))
	return db
}

func TestRecommendationRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := &authentity.User{Name: "Ana", Mail: "ana@example.com", Password: "x", Role: authentity.RoleUser}
	require.NoError(t, db.Create(u).Error)
	repo := NewRecommendationRepository(db)
	images := NewImageRepository(db)

	rec := &entity.Recommendation{
		Title: "Time Out Market", Category: entity.CategoryRestaurant, City: "Lisbon", Country: "Portugal",
		Rating: 5, Tags: []string{"food"}, UserID: u.ID,
	}
	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, repo.Create(ctx, &entity.Recommendation{
		Title: "Gulbenkian", Category: entity.CategoryMuseum, City: "Lisbon", Country: "Portugal", Rating: 4, UserID: u.ID,
	}))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"food"}, got.Tags)

	mine, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := repo.ListByUser(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, images.Create(ctx, &entity.Image{RecommendationID: rec.ID, URL: "/uploads/recommendations/a.jpg"}))
	n, err := images.CountByRecommendation(ctx, rec.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err := images.ListByRecommendation(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "/uploads/recommendations/a.jpg", list[0].URL)
}

func TestImageRepository_AddWithLimit(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	u := &authentity.User{Name: "Ana", Mail: "ana@example.com", Password: "x", Role: authentity.RoleUser}
	require.NoError(t, db.Create(u).Error)
	rec := &entity.Recommendation{Title: "Bar", Category: entity.CategoryBar, City: "Lisbon", Country: "Portugal", Rating: 4, UserID: u.ID}
	require.NoError(t, NewRecommendationRepository(db).Create(ctx, rec))
	images := NewImageRepository(db)

	img := &entity.Image{RecommendationID: rec.ID, URL: "/uploads/recommendations/a.jpg"}
	require.NoError(t, images.AddWithLimit(ctx, img, 1))
	assert.NotEmpty(t, img.ID)

	err := images.AddWithLimit(ctx, &entity.Image{RecommendationID: rec.ID, URL: "/uploads/recommendations/b.jpg"}, 1)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = images.AddWithLimit(ctx, &entity.Image{RecommendationID: "missing", URL: "/uploads/recommendations/c.jpg"}, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	n, err := images.CountByRecommendation(ctx, rec.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
