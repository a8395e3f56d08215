package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/host/domain/entity"
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

	require.NoError(t, db.AutoMigrate(&authentity.User{}, &entity.Speciality{}, &entity.HostRequest{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, mail string) *authentity.User {
	t.Helper()
	u := &authentity.User{Name: "Student", Mail: mail, Password: "x", Role: authentity.RoleUser}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestHostRequestRepository_SubmitAndApprove(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	requests := NewHostRequestRepository(db)
	specialities := NewSpecialityRepository(db)
	ana := seedUser(t, db, "ana@example.com")

	rooms := &entity.Speciality{Name: "Rooms"}
	flats := &entity.Speciality{Name: "Flats"}
	require.NoError(t, specialities.Create(ctx, rooms))
	require.NoError(t, specialities.Create(ctx, flats))

	specs, err := specialities.FindByIDs(ctx, []string{rooms.ID, flats.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "Flats", specs[0].Name)

	req := &entity.HostRequest{UserID: ana.ID, Reason: "I rent two rooms", Specialities: specs}
	require.NoError(t, requests.Submit(ctx, req))
	assert.Equal(t, entity.StatusPending, req.Status)
	assert.Len(t, req.Specialities, 2)

	err = requests.Submit(ctx, &entity.HostRequest{UserID: ana.ID, Reason: "again please"})
	assert.ErrorIs(t, err, apperr.ErrConflict, "one open request per user")

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	approved, err := requests.Approve(ctx, req.ID, at)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, approved.Status)
	require.NotNil(t, approved.HostSince)
	assert.True(t, at.Equal(*approved.HostSince))

	var user authentity.User
	require.NoError(t, db.First(&user, "id = ?", ana.ID).Error)
	assert.Equal(t, authentity.RoleHost, user.Role)

	_, err = requests.Approve(ctx, req.ID, at)
	assert.ErrorIs(t, err, apperr.ErrValidation, "approved requests are final")
	_, err = requests.Reject(ctx, req.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	hosts, err := requests.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	require.NotNil(t, hosts[0].User)
	assert.Equal(t, "ana@example.com", hosts[0].User.Mail)
	assert.Len(t, hosts[0].Specialities, 2)

	// 承認後は新しい申請を出せる
	require.NoError(t, requests.Submit(ctx, &entity.HostRequest{UserID: ana.ID, Reason: "more rooms now"}))
}

func TestHostRequestRepository_RejectKeepsRole(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	requests := NewHostRequestRepository(db)
	luis := seedUser(t, db, "luis@example.com")

	req := &entity.HostRequest{UserID: luis.ID, Reason: "please let me host"}
	require.NoError(t, requests.Submit(ctx, req))

	rejected, err := requests.Reject(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.HostSince)

	var user authentity.User
	require.NoError(t, db.First(&user, "id = ?", luis.ID).Error)
	assert.Equal(t, authentity.RoleUser, user.Role)

	_, err = requests.Approve(ctx, "missing", time.Now())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	all, err := requests.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	hosts, err := requests.ListApproved(ctx)
	require.NoError(t, err)
	assert.Empty(t, hosts)
}

func TestSpecialityRepository_UniqueName(t *testing.T) {
	ctx := context.Background()
	repo := NewSpecialityRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, &entity.Speciality{Name: "Studios"}))
	err := repo.Create(ctx, &entity.Speciality{Name: "Studios"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	list, err := repo.ListByName(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHostRequestRepository_OnePendingPerUserInSchema(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	requests := NewHostRequestRepository(db)
	ana := seedUser(t, db, "ana@example.com")

	// 終了した申請は何件あってもよい
	for _, st := range []entity.Status{entity.StatusRejected, entity.StatusRejected, entity.StatusApproved} {
		require.NoError(t, db.Create(&entity.HostRequest{UserID: ana.ID, Reason: "old", Status: st}).Error)
	}

	require.NoError(t, db.Create(&entity.HostRequest{UserID: ana.ID, Reason: "first", Status: entity.StatusPending}).Error)
	// Submitの事前確認を通らない書き込みでもインデックスが2件目を拒否する
	err := db.Create(&entity.HostRequest{UserID: ana.ID, Reason: "second", Status: entity.StatusPending}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = requests.Submit(ctx, &entity.HostRequest{UserID: ana.ID, Reason: "third"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.EqualError(t, err, "conflict: you already have a pending host request")

	err = requests.Submit(ctx, &entity.HostRequest{UserID: "missing", Reason: "who am I"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
