// Package usecase はforumフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/forum/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
)

// ForumRepository はフォーラムの永続化層を抽象化します。
type ForumRepository interface {
	GetAll(ctx context.Context) ([]entity.Forum, error)
	GetByID(ctx context.Context, id string) (*entity.Forum, error)
	Create(ctx context.Context, f *entity.Forum) error
	Update(ctx context.Context, f *entity.Forum, fields repository.Fields) error
	Delete(ctx context.Context, f *entity.Forum) error
	ListByCountry(ctx context.Context, country string) ([]entity.Forum, error)
}

// ThreadRepository はスレッドの永続化層を抽象化します。
type ThreadRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Thread, error)
	Create(ctx context.Context, t *entity.Thread) error
	Delete(ctx context.Context, t *entity.Thread) error
	ListByForum(ctx context.Context, forumID string) ([]entity.Thread, error)
}

// MessageRepository はメッセージの永続化層を抽象化します。
type MessageRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	Create(ctx context.Context, m *entity.Message) error
	Delete(ctx context.Context, m *entity.Message) error
	ListByThread(ctx context.Context, threadID string) ([]entity.Message, error)
	ListReplies(ctx context.Context, parentID string) ([]entity.Message, error)
}

// TextModerator は投稿テキストの審査を抽象化します。
type TextModerator interface {
	CheckText(ctx context.Context, text string) error
}

// ForumInput はフォーラムの作成入力です。
type ForumInput struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Country     string          `json:"country" binding:"max=100"`
	Category    entity.Category `json:"category" binding:"required,oneof=General Housing Studies Travel Events Other"`
}

// ForumPatch はフォーラムの部分更新です。
type ForumPatch struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Country     *string          `json:"country" binding:"omitempty,max=100"`
	Category    *entity.Category `json:"category" binding:"omitempty,oneof=General Housing Studies Travel Events Other"`
}

// ThreadInput はスレッドの作成入力です。
type ThreadInput struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required,max=10000"`
}

// MessageInput はメッセージの投稿入力です。
type MessageInput struct {
	Content         string  `json:"content" binding:"required,max=5000"`
	ParentMessageID *string `json:"parent_message_id"`
}

// forumUsecase はフォーラムのビジネスロジックを実装します。
type forumUsecase struct {
	forums    ForumRepository
	threads   ThreadRepository
	messages  MessageRepository
	moderator TextModerator
}

// NewForumUsecase はforumUsecaseの新しいインスタンスを生成します。
func NewForumUsecase(forums ForumRepository, threads ThreadRepository, messages MessageRepository, moderator TextModerator) *forumUsecase {
	return &forumUsecase{forums: forums, threads: threads, messages: messages, moderator: moderator}
}

// List はフォーラムを返します。countryが指定されればその国に絞り込みます。
func (u *forumUsecase) List(ctx context.Context, country string) ([]entity.Forum, error) {
	if strings.TrimSpace(country) != "" {
		return u.forums.ListByCountry(ctx, country)
	}
	return u.forums.GetAll(ctx)
}

// Get はIDでフォーラムを取得します。
func (u *forumUsecase) Get(ctx context.Context, id string) (*entity.Forum, error) {
	f, err := u.forums.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound(err, "forum")
	}
	return f, nil
}

// Create はactorを作成者としてフォーラムを登録します。
func (u *forumUsecase) Create(ctx context.Context, actor *authentity.User, in ForumInput) (*entity.Forum, error) {
	f := &entity.Forum{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Country:     strings.TrimSpace(in.Country),
		Category:    in.Category,
		CreatedBy:   actor.ID,
	}
	if err := u.forums.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Update は作成者または管理者による部分更新を行います。
func (u *forumUsecase) Update(ctx context.Context, actor *authentity.User, id string, patch ForumPatch) (*entity.Forum, error) {
	f, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(f.CreatedBy) {
		return nil, fmt.Errorf("%w: only the creator can modify this forum", apperr.ErrForbidden)
	}
	fields := repository.Fields{}
	if patch.Title != nil {
		fields["title"] = strings.TrimSpace(*patch.Title)
	}
	repository.SetIf(fields, "description", patch.Description)
	repository.SetIf(fields, "country", patch.Country)
	repository.SetIf(fields, "category", patch.Category)
	if err := u.forums.Update(ctx, f, fields); err != nil {
		return nil, apperr.NotFound(err, "forum")
	}
	return f, nil
}

// Delete は作成者または管理者がフォーラムを削除します。スレッドとメッセージも削除されます。
func (u *forumUsecase) Delete(ctx context.Context, actor *authentity.User, id string) error {
	f, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(f.CreatedBy) {
		return fmt.Errorf("%w: only the creator can delete this forum", apperr.ErrForbidden)
	}
	return u.forums.Delete(ctx, f)
}

// Threads はフォーラムのスレッドを返します。
func (u *forumUsecase) Threads(ctx context.Context, forumID string) ([]entity.Thread, error) {
	if _, err := u.Get(ctx, forumID); err != nil {
		return nil, err
	}
	return u.threads.ListByForum(ctx, forumID)
}

// CreateThread はフォーラムにスレッドを作成します。タイトルと本文は審査されます。
func (u *forumUsecase) CreateThread(ctx context.Context, actor *authentity.User, forumID string, in ThreadInput) (*entity.Thread, error) {
	if _, err := u.Get(ctx, forumID); err != nil {
		return nil, err
	}
	title, content := strings.TrimSpace(in.Title), strings.TrimSpace(in.Content)
	if err := u.moderator.CheckText(ctx, title+"\n"+content); err != nil {
		return nil, err
	}
	t := &entity.Thread{ForumID: forumID, Title: title, Content: content, CreatedBy: actor.ID}
	if err := u.threads.Create(ctx, t); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "thread created", "thread_id", t.ID, "forum_id", forumID, "user_id", actor.ID)
	return t, nil
}

// GetThread はIDでスレッドを取得します。
func (u *forumUsecase) GetThread(ctx context.Context, id string) (*entity.Thread, error) {
	t, err := u.threads.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound(err, "thread")
	}
	return t, nil
}

// DeleteThread は投稿者または管理者がスレッドを削除します。
func (u *forumUsecase) DeleteThread(ctx context.Context, actor *authentity.User, id string) error {
	t, err := u.GetThread(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(t.CreatedBy) {
		return fmt.Errorf("%w: only the author can delete this thread", apperr.ErrForbidden)
	}
	return u.threads.Delete(ctx, t)
}

// Messages はスレッドのメッセージを返します。
func (u *forumUsecase) Messages(ctx context.Context, threadID string) ([]entity.Message, error) {
	if _, err := u.GetThread(ctx, threadID); err != nil {
		return nil, err
	}
	return u.messages.ListByThread(ctx, threadID)
}

// PostMessage はスレッドにメッセージを投稿します。
// 返信先は同じスレッドのメッセージでなければならず、本文は審査されます。
func (u *forumUsecase) PostMessage(ctx context.Context, actor *authentity.User, threadID string, in MessageInput) (*entity.Message, error) {
	if _, err := u.GetThread(ctx, threadID); err != nil {
		return nil, err
	}

	var parentID *string
	if in.ParentMessageID != nil && *in.ParentMessageID != "" {
		parent, err := u.messages.GetByID(ctx, *in.ParentMessageID)
		if err != nil {
			return nil, apperr.NotFound(err, "parent message")
		}
		if parent.ThreadID != threadID {
			return nil, fmt.Errorf("%w: parent message belongs to another thread", apperr.ErrValidation)
		}
		parentID = &parent.ID
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", apperr.ErrValidation)
	}
	if err := u.moderator.CheckText(ctx, content); err != nil {
		return nil, err
	}

	m := &entity.Message{ThreadID: threadID, Content: content, ParentMessageID: parentID, CreatedBy: actor.ID}
	if err := u.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Replies はメッセージへの直接の返信を返します。
func (u *forumUsecase) Replies(ctx context.Context, messageID string) ([]entity.Message, error) {
	if _, err := u.messages.GetByID(ctx, messageID); err != nil {
		return nil, apperr.NotFound(err, "message")
	}
	return u.messages.ListReplies(ctx, messageID)
}

// DeleteMessage は投稿者または管理者がメッセージを削除します。返信も削除されます。
func (u *forumUsecase) DeleteMessage(ctx context.Context, actor *authentity.User, id string) error {
	m, err := u.messages.GetByID(ctx, id)
	if err != nil {
		return apperr.NotFound(err, "message")
	}
	if !actor.CanManage(m.CreatedBy) {
		return fmt.Errorf("%w: only the author can delete this message", apperr.ErrForbidden)
	}
	return u.messages.Delete(ctx, m)
}
