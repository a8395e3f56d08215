// Package adapters はforumフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"erasmus_backend/internal/feature/forum/domain/entity"
	"erasmus_backend/internal/platform/repository"
)

// ForumRepository はフォーラムの永続化を担います。
type ForumRepository struct {
	*repository.Repository[entity.Forum]
}

// NewForumRepository はForumRepositoryの新しいインスタンスを生成します。
func NewForumRepository(db *gorm.DB) *ForumRepository {
	return &ForumRepository{Repository: repository.New[entity.Forum](db)}
}

// ListByCountry はcountry（大文字小文字を区別しない）のフォーラムを作成順に返します。
func (r *ForumRepository) ListByCountry(ctx context.Context, country string) ([]entity.Forum, error) {
	var out []entity.Forum
	err := r.DB(ctx).Where("LOWER(country) = ?", strings.ToLower(strings.TrimSpace(country))).
		Order("created_at").Find(&out).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// ThreadRepository はスレッドの永続化を担います。
type ThreadRepository struct {
	*repository.Repository[entity.Thread]
}

// NewThreadRepository はThreadRepositoryの新しいインスタンスを生成します。
func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{Repository: repository.New[entity.Thread](db)}
}

// ListByForum はフォーラムのスレッドを新しい順に返します。
func (r *ThreadRepository) ListByForum(ctx context.Context, forumID string) ([]entity.Thread, error) {
	var out []entity.Thread
	if err := r.DB(ctx).Where("forum_id = ?", forumID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// MessageRepository はメッセージの永続化を担います。
type MessageRepository struct {
	*repository.Repository[entity.Message]
}

// NewMessageRepository はMessageRepositoryの新しいインスタンスを生成します。
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{Repository: repository.New[entity.Message](db)}
}

// ListByThread はスレッドのメッセージを投稿順に返します（返信を含む）。
func (r *MessageRepository) ListByThread(ctx context.Context, threadID string) ([]entity.Message, error) {
	return r.list(ctx, "thread_id = ?", threadID)
}

// ListReplies はparentIDへの直接の返信を投稿順に返します。
func (r *MessageRepository) ListReplies(ctx context.Context, parentID string) ([]entity.Message, error) {
	return r.list(ctx, "parent_message_id = ?", parentID)
}

func (r *MessageRepository) list(ctx context.Context, cond string, arg string) ([]entity.Message, error) {
	var out []entity.Message
	if err := r.DB(ctx).Where(cond, arg).Order("created_at").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}
