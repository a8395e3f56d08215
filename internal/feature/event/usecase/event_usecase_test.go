package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/event/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
)

// memEvents is an in-memory EventRepository.
type memEvents struct {
	items        []*entity.Event
	participants map[string][]string
	updated      repository.Fields
	deleted      []string
}

func newMemEvents() *memEvents {
	return &memEvents{participants: map[string][]string{}}
}

func (m *memEvents) GetAll(ctx context.Context) ([]entity.Event, error) {
	out := make([]entity.Event, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, *e)
	}
	return out, nil
}

func (m *memEvents) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	for _, e := range m.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memEvents) Create(ctx context.Context, e *entity.Event) error {
	e.ID = fmt.Sprintf("ev-%d", len(m.items)+1)
	m.items = append(m.items, e)
	return nil
}

func (m *memEvents) Update(ctx context.Context, e *entity.Event, fields repository.Fields) error {
	m.updated = fields
	return nil
}

func (m *memEvents) Delete(ctx context.Context, e *entity.Event) error {
	m.deleted = append(m.deleted, e.ID)
	return nil
}

func (m *memEvents) ListByCreator(ctx context.Context, creatorID string) ([]entity.Event, error) {
	var out []entity.Event
	for _, e := range m.items {
		if e.CreatorID == creatorID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memEvents) ListParticipating(ctx context.Context, userID string) ([]entity.Event, error) {
	return nil, nil
}

func (m *memEvents) JoinedEventIDs(ctx context.Context, userID string) ([]string, error) {
	var out []string
	for id, users := range m.participants {
		for _, u := range users {
			if u == userID {
				out = append(out, id)
			}
		}
	}
	return out, nil
}

func (m *memEvents) ParticipantIDs(ctx context.Context, eventID string) ([]string, error) {
	return m.participants[eventID], nil
}

func (m *memEvents) Countries(ctx context.Context) ([]string, error) {
	return []string{"Portugal"}, nil
}

func (m *memEvents) Join(ctx context.Context, eventID, userID string) (bool, error) {
	e, err := m.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	for _, u := range m.participants[eventID] {
		if u == userID {
			return false, nil
		}
	}
	if e.Full() {
		return false, fmt.Errorf("%w: event is full", apperr.ErrConflict)
	}
	m.participants[eventID] = append(m.participants[eventID], userID)
	return true, nil
}

func (m *memEvents) Leave(ctx context.Context, eventID, userID string) (bool, error) {
	users := m.participants[eventID]
	for i, u := range users {
		if u == userID {
			m.participants[eventID] = append(users[:i], users[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// memUsers returns users in reverse order to check that participants keep join order.
type memUsers struct{}

func (memUsers) FindByIDs(ctx context.Context, ids []string) ([]authentity.User, error) {
	out := make([]authentity.User, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, authentity.User{Base: model.Base{ID: ids[i]}, Name: ids[i]})
	}
	return out, nil
}

func user(id string, role authentity.Role) *authentity.User {
	return &authentity.User{Base: model.Base{ID: id}, Role: role}
}

func seed(t *testing.T, events *memEvents, creator string, max *int) *entity.Event {
	t.Helper()
	e := &entity.Event{Title: "Party", Date: time.Now(), CreatorID: creator, MaxAttendees: max}
	require.NoError(t, events.Create(context.Background(), e))
	return e
}

func TestEventUsecase_Create(t *testing.T) {
	events := newMemEvents()
	uc := NewEventUsecase(events, memUsers{})

	e, err := uc.Create(context.Background(), user("ana", authentity.RoleUser), EventInput{
		Title: "  Beach day ", City: "Cascais", Country: "Portugal", Location: "Praia",
		Category: entity.CategoryTravel, Tags: []string{"sun", " Sun ", "", "sea"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Beach day", e.Title)
	assert.Equal(t, "ana", e.CreatorID)
	assert.Equal(t, []string{"sun", "sea"}, e.Tags)
}

func TestEventUsecase_JoinedFlag(t *testing.T) {
	ctx := context.Background()
	events := newMemEvents()
	uc := NewEventUsecase(events, memUsers{})
	a := seed(t, events, "ana", nil)
	seed(t, events, "ana", nil)

	joined, err := uc.Join(ctx, user("luis", authentity.RoleUser), a.ID)
	require.NoError(t, err)
	assert.True(t, joined)

	views, err := uc.List(ctx, user("luis", authentity.RoleUser))
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].Joined)
	assert.False(t, views[1].Joined)

	view, err := uc.Get(ctx, user("eva", authentity.RoleUser), a.ID)
	require.NoError(t, err)
	assert.False(t, view.Joined)
}

func TestEventUsecase_JoinLeave(t *testing.T) {
	ctx := context.Background()
	events := newMemEvents()
	uc := NewEventUsecase(events, memUsers{})
	one := 1
	e := seed(t, events, "ana", &one)

	joined, err := uc.Join(ctx, user("luis", authentity.RoleUser), e.ID)
	require.NoError(t, err)
	assert.True(t, joined)

	joined, err = uc.Join(ctx, user("luis", authentity.RoleUser), e.ID)
	require.NoError(t, err)
	assert.False(t, joined)

	_, err = uc.Join(ctx, user("missing-event", authentity.RoleUser), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualError(t, err, "not found: event")

	left, err := uc.Leave(ctx, user("eva", authentity.RoleUser), e.ID)
	require.NoError(t, err)
	assert.False(t, left)

	left, err = uc.Leave(ctx, user("luis", authentity.RoleUser), e.ID)
	require.NoError(t, err)
	assert.True(t, left)
}

func TestEventUsecase_Participants(t *testing.T) {
	ctx := context.Background()
	events := newMemEvents()
	uc := NewEventUsecase(events, memUsers{})
	e := seed(t, events, "ana", nil)
	events.participants[e.ID] = []string{"luis", "eva", "ana"}

	users, err := uc.Participants(ctx, e.ID)
	require.NoError(t, err)
	ids := []string{}
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"luis", "eva", "ana"}, ids)

	_, err = uc.Participants(ctx, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEventUsecase_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	five := 5
	one := 1
	title := " Renamed "
	tags := []string{"a", "A", "b"}

	tests := []struct {
		name    string
		actor   *authentity.User
		patch   EventPatch
		wantErr error
	}{
		{"creator renames", user("ana", authentity.RoleUser), EventPatch{Title: &title, Tags: &tags}, nil},
		{"admin raises capacity", user("root", authentity.RoleAdministrator), EventPatch{MaxAttendees: &five}, nil},
		{"stranger", user("luis", authentity.RoleUser), EventPatch{Title: &title}, apperr.ErrForbidden},
		{"capacity below attendees", user("ana", authentity.RoleUser), EventPatch{MaxAttendees: &one}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newMemEvents()
			uc := NewEventUsecase(events, memUsers{})
			e := seed(t, events, "ana", nil)
			e.AttendeesCount = 3

			_, err := uc.Update(ctx, tt.actor, e.ID, tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, events.updated)
				return
			}
			require.NoError(t, err)
			if tt.patch.Title != nil {
				assert.Equal(t, "Renamed", events.updated["title"])
				assert.Equal(t, `["a","b"]`, events.updated["tags"])
			}
		})
	}

	events := newMemEvents()
	uc := NewEventUsecase(events, memUsers{})
	e := seed(t, events, "ana", nil)
	assert.ErrorIs(t, uc.Delete(ctx, user("luis", authentity.RoleUser), e.ID), apperr.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, user("ana", authentity.RoleUser), e.ID))
	assert.Equal(t, []string{e.ID}, events.deleted)
}
