package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/forum/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
)

// memStore is an in-memory implementation of the three forum repositories.
type memStore struct {
	forums   map[string]*entity.Forum
	threads  map[string]*entity.Thread
	messages []*entity.Message
	deleted  []string
	seq      int
}

func newMemStore() *memStore {
	return &memStore{forums: map[string]*entity.Forum{}, threads: map[string]*entity.Thread{}}
}

func (s *memStore) id(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type memForums struct{ *memStore }

func (m memForums) GetAll(ctx context.Context) ([]entity.Forum, error) {
	var out []entity.Forum
	for _, f := range m.forums {
		out = append(out, *f)
	}
	return out, nil
}

func (m memForums) GetByID(ctx context.Context, id string) (*entity.Forum, error) {
	if f, ok := m.forums[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, apperr.ErrNotFound
}

func (m memForums) Create(ctx context.Context, f *entity.Forum) error {
	f.ID = m.id("forum")
	m.forums[f.ID] = f
	return nil
}

func (m memForums) Update(ctx context.Context, f *entity.Forum, fields repository.Fields) error {
	if v, ok := fields["title"]; ok {
		f.Title = v.(string)
	}
	return nil
}

func (m memForums) Delete(ctx context.Context, f *entity.Forum) error {
	m.deleted = append(m.deleted, f.ID)
	return nil
}

func (m memForums) ListByCountry(ctx context.Context, country string) ([]entity.Forum, error) {
	return []entity.Forum{{Country: country}}, nil
}

type memThreads struct{ *memStore }

func (m memThreads) GetByID(ctx context.Context, id string) (*entity.Thread, error) {
	if t, ok := m.threads[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, apperr.ErrNotFound
}

func (m memThreads) Create(ctx context.Context, t *entity.Thread) error {
	t.ID = m.id("thread")
	m.threads[t.ID] = t
	return nil
}

func (m memThreads) Delete(ctx context.Context, t *entity.Thread) error {
	m.deleted = append(m.deleted, t.ID)
	return nil
}

func (m memThreads) ListByForum(ctx context.Context, forumID string) ([]entity.Thread, error) {
	return nil, nil
}

type memMessages struct{ *memStore }

func (m memMessages) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			cp := *msg
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m memMessages) Create(ctx context.Context, msg *entity.Message) error {
	msg.ID = m.id("msg")
	m.messages = append(m.messages, msg)
	return nil
}

func (m memMessages) Delete(ctx context.Context, msg *entity.Message) error {
	m.deleted = append(m.deleted, msg.ID)
	return nil
}

func (m memMessages) ListByThread(ctx context.Context, threadID string) ([]entity.Message, error) {
	return nil, nil
}

func (m memMessages) ListReplies(ctx context.Context, parentID string) ([]entity.Message, error) {
	var out []entity.Message
	for _, msg := range m.messages {
		if msg.ParentMessageID != nil && *msg.ParentMessageID == parentID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

// mockModerator is a mock implementation of the TextModerator interface.
type mockModerator struct {
	CheckTextFunc func(ctx context.Context, text string) error
	seen          []string
}

func (m *mockModerator) CheckText(ctx context.Context, text string) error {
	m.seen = append(m.seen, text)
	if m.CheckTextFunc != nil {
		return m.CheckTextFunc(ctx, text)
	}
	return nil
}

func user(id string, role authentity.Role) *authentity.User {
	return &authentity.User{Base: model.Base{ID: id}, Role: role}
}

func setup(t *testing.T) (*forumUsecase, *memStore, *mockModerator, *entity.Thread) {
	t.Helper()
	s := newMemStore()
	mod := &mockModerator{}
	uc := NewForumUsecase(memForums{s}, memThreads{s}, memMessages{s}, mod)

	f, err := uc.Create(context.Background(), user("ana", authentity.RoleUser), ForumInput{Title: " Lisbon ", Category: entity.CategoryGeneral})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", f.Title)

	th, err := uc.CreateThread(context.Background(), user("ana", authentity.RoleUser), f.ID, ThreadInput{Title: "Rooms", Content: "Tips?"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rooms\nTips?"}, mod.seen)
	return uc, s, mod, th
}

func TestForumUsecase_PostMessage(t *testing.T) {
	ctx := context.Background()
	uc, s, mod, th := setup(t)

	root, err := uc.PostMessage(ctx, user("luis", authentity.RoleUser), th.ID, MessageInput{Content: " Try Graça "})
	require.NoError(t, err)
	assert.Equal(t, "Try Graça", root.Content)
	assert.Nil(t, root.ParentMessageID)

	reply, err := uc.PostMessage(ctx, user("ana", authentity.RoleUser), th.ID, MessageInput{Content: "Thanks", ParentMessageID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentMessageID)
	assert.Equal(t, root.ID, *reply.ParentMessageID)

	replies, err := uc.Replies(ctx, root.ID)
	require.NoError(t, err)
	assert.Len(t, replies, 1)

	t.Run("parent in another thread", func(t *testing.T) {
		other := &entity.Thread{ForumID: "forum-1", Title: "Other", CreatedBy: "ana"}
		require.NoError(t, memThreads{s}.Create(ctx, other))
		_, err := uc.PostMessage(ctx, user("ana", authentity.RoleUser), other.ID, MessageInput{Content: "x", ParentMessageID: &root.ID})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown parent", func(t *testing.T) {
		missing := "nope"
		_, err := uc.PostMessage(ctx, user("ana", authentity.RoleUser), th.ID, MessageInput{Content: "x", ParentMessageID: &missing})
		assert.EqualError(t, err, "not found: parent message")
	})

	t.Run("unknown thread", func(t *testing.T) {
		_, err := uc.PostMessage(ctx, user("ana", authentity.RoleUser), "nope", MessageInput{Content: "x"})
		assert.EqualError(t, err, "not found: thread")
	})

	t.Run("flagged content", func(t *testing.T) {
		mod.CheckTextFunc = func(ctx context.Context, text string) error {
			return fmt.Errorf("%w: content rejected by moderation", apperr.ErrValidation)
		}
		defer func() { mod.CheckTextFunc = nil }()
		before := len(s.messages)
		_, err := uc.PostMessage(ctx, user("ana", authentity.RoleUser), th.ID, MessageInput{Content: "bad"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Len(t, s.messages, before)
	})

	t.Run("moderation outage", func(t *testing.T) {
		outage := errors.New("moderation: service unavailable")
		mod.CheckTextFunc = func(ctx context.Context, text string) error { return outage }
		defer func() { mod.CheckTextFunc = nil }()
		_, err := uc.PostMessage(ctx, user("ana", authentity.RoleUser), th.ID, MessageInput{Content: "hello"})
		assert.ErrorIs(t, err, outage)
	})
}

func TestForumUsecase_Ownership(t *testing.T) {
	ctx := context.Background()
	uc, s, _, th := setup(t)
	forumID := th.ForumID
	title := "Porto"

	_, err := uc.Update(ctx, user("luis", authentity.RoleUser), forumID, ForumPatch{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	f, err := uc.Update(ctx, user("root", authentity.RoleAdministrator), forumID, ForumPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Porto", f.Title)

	assert.ErrorIs(t, uc.DeleteThread(ctx, user("luis", authentity.RoleUser), th.ID), apperr.ErrForbidden)
	require.NoError(t, uc.DeleteThread(ctx, user("ana", authentity.RoleUser), th.ID))

	msg, err := uc.PostMessage(ctx, user("luis", authentity.RoleUser), th.ID, MessageInput{Content: "hi"})
	require.NoError(t, err)
	assert.ErrorIs(t, uc.DeleteMessage(ctx, user("ana", authentity.RoleUser), msg.ID), apperr.ErrForbidden)
	require.NoError(t, uc.DeleteMessage(ctx, user("luis", authentity.RoleUser), msg.ID))

	require.NoError(t, uc.Delete(ctx, user("ana", authentity.RoleUser), forumID))
	assert.Equal(t, []string{th.ID, msg.ID, forumID}, s.deleted)

	_, err = uc.Threads(ctx, "missing")
	assert.EqualError(t, err, "not found: forum")
}

func TestForumUsecase_ListByCountry(t *testing.T) {
	uc, _, _, _ := setup(t)
	items, err := uc.List(context.Background(), "Spain")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Spain", items[0].Country)

	items, err = uc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
