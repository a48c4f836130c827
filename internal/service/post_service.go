package service

import (
	"context"
	"regexp"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/repository"

	"gorm.io/gorm"
)

const maxPostContentLen = 50000

// mentionPattern matches @handle references in post content.
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_](?:[A-Za-z0-9_.-]*[A-Za-z0-9_])?)`)

type PostService struct {
	db            *gorm.DB
	postRepo      repository.PostRepository
	threadRepo    repository.ThreadRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

type CreatePostInput struct {
	ThreadID string
	AuthorID string
	Content  string
	ParentID *string
}

type EditPostInput struct {
	PostID     string
	EditorID   string
	Content    string
	EditReason string
}

func NewPostService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	threadRepo repository.ThreadRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
) *PostService {
	return &PostService{
		db:            db,
		postRepo:      postRepo,
		threadRepo:    threadRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// CreatePost writes the post, bumps the thread's activity timestamp and runs
// the subscriber and mention fan-out, all in one transaction.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	thread, err := s.threadRepo.GetByID(ctx, in.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread.IsDeleted {
		return nil, models.NewNotFoundError("thread", in.ThreadID)
	}
	if thread.IsLocked {
		return nil, models.NewValidationError("ThreadLockedError")
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if author.IsBanned(time.Now()) {
		return nil, models.NewForbiddenError("Banned users cannot post")
	}

	if in.ParentID != nil {
		parent, err := s.postRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ThreadID != in.ThreadID {
			return nil, models.NewValidationError("Parent post belongs to a different thread")
		}
	}

	mentioned, err := s.resolveMentions(ctx, in.Content, in.AuthorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ThreadID: in.ThreadID,
		AuthorID: in.AuthorID,
		Content:  in.Content,
		ParentID: in.ParentID,
	}

	var created []models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).Create(ctx, post); err != nil {
			return err
		}
		if err := s.threadRepo.WithTx(tx).TouchActivity(ctx, thread.ID, time.Now()); err != nil {
			return err
		}

		txNotifications := s.notifications.WithTx(tx)
		created, err = txNotifications.NotifyPostCreated(ctx, thread, post)
		if err != nil {
			return err
		}
		mentionRows, err := txNotifications.NotifyMentions(ctx, thread, post, mentioned)
		if err != nil {
			return err
		}
		created = append(created, mentionRows...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifications.PublishAll(ctx, created)

	return s.postRepo.GetByID(ctx, post.ID)
}

// resolveMentions maps @handles in the content to users. Handles that do not
// resolve are ignored rather than failing the post.
func (s *PostService) resolveMentions(ctx context.Context, content, authorID string) ([]models.User, error) {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	seen := map[string]bool{}
	var users []models.User
	for _, match := range matches {
		handle := match[1]
		if seen[handle] {
			continue
		}
		seen[handle] = true

		user, err := s.userRepo.GetByHandle(ctx, handle)
		if err != nil {
			if models.IsCode(err, models.CodeNotFound) {
				continue
			}
			return nil, err
		}
		if user.ID == authorID {
			continue
		}
		users = append(users, *user)
	}
	return users, nil
}

// EditPost updates the content and appends the new revision to the post's
// edit history in the same transaction, so history always includes the
// current content as its latest entry.
func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (*models.Post, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("post", in.PostID)
	}

	if in.EditorID != post.AuthorID {
		editor, err := s.userRepo.GetByID(ctx, in.EditorID)
		if err != nil {
			return nil, err
		}
		if !editor.IsModerator() {
			return nil, models.NewForbiddenError("You can only edit your own posts")
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		postRepo := s.postRepo.WithTx(tx)
		if err := postRepo.UpdateContent(ctx, in.PostID, in.Content); err != nil {
			return err
		}
		return postRepo.CreateVersion(ctx, &models.PostVersion{
			PostID:     in.PostID,
			Content:    in.Content,
			EditedByID: in.EditorID,
			EditReason: in.EditReason,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, in.PostID)
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// ListPosts returns a thread's posts in creation order. includeModerated is
// the caller's moderator flag: regular viewers never see hidden or deleted
// posts.
func (s *PostService) ListPosts(ctx context.Context, threadID string, includeModerated bool) ([]models.Post, error) {
	if _, err := s.threadRepo.GetByID(ctx, threadID); err != nil {
		return nil, err
	}
	return s.postRepo.ListByThread(ctx, threadID, includeModerated)
}

func (s *PostService) ListPostVersions(ctx context.Context, postID string) ([]models.PostVersion, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.ListVersions(ctx, postID)
}

// SoftDeletePost is allowed for the post's author and for moderators.
func (s *PostService) SoftDeletePost(ctx context.Context, id, actorID string) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.ID != post.AuthorID && !actor.IsModerator() {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	return s.postRepo.SoftDelete(ctx, id, actorID)
}

// HidePost is a moderator-only action; unlike deletion it is reversible.
func (s *PostService) HidePost(ctx context.Context, id, moderatorID string, hidden bool, reason string) error {
	moderator, err := s.userRepo.GetByID(ctx, moderatorID)
	if err != nil {
		return err
	}
	if !moderator.IsModerator() {
		return models.NewForbiddenError("Only moderators can hide posts")
	}

	return s.postRepo.SetHidden(ctx, id, hidden, reason)
}
