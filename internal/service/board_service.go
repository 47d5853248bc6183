package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/policy"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// BoardService manages notices and Q&A posts.
type BoardService struct {
	posts     repository.BoardRepository
	publisher events.Publisher
	now       Clock
}

// BoardDependencies bundles collaborators for the board service.
type BoardDependencies struct {
	BoardRepo repository.BoardRepository
	Publisher events.Publisher
	Clock     Clock
}

// PostInput carries a post's title and content.
type PostInput struct {
	Title   string
	Content string
}

// NewBoardService constructs the service.
func NewBoardService(deps BoardDependencies) *BoardService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &BoardService{posts: deps.BoardRepo, publisher: deps.Publisher, now: now}
}

// List returns the posts of a category visible to the caller: every notice,
// and for Q&A every post for administrators or only the caller's own posts.
func (s *BoardService) List(ctx context.Context, identity *domain.Identity, category string) ([]domain.BoardPost, error) {
	cat, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	filter := repository.BoardFilter{Category: cat}
	if cat == domain.BoardCategoryQnA {
		requester := requesterOf(identity)
		if !requester.Role.Is(domain.RoleAdmin) {
			if requester.MemberID == 0 {
				return nil, apperrors.NewInvalidToken()
			}
			filter.MemberID = requester.MemberID
		}
	}
	return s.posts.List(ctx, filter)
}

// Get returns a post the caller may read.
func (s *BoardService) Get(ctx context.Context, identity *domain.Identity, id int64) (*domain.BoardPost, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizePost(identity, post.Category, post.MemberID, policy.ActionRead); err != nil {
		return nil, err
	}
	return post, nil
}

// Create publishes a new post authored by the caller.
func (s *BoardService) Create(ctx context.Context, identity *domain.Identity, category string, input PostInput) (*domain.BoardPost, error) {
	cat, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	if err := authorizePost(identity, cat, identity.MemberIDOrZero(), policy.ActionCreate); err != nil {
		return nil, err
	}
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	post := &domain.BoardPost{
		Category: cat,
		MemberID: identity.MemberID,
		UserID:   identity.Subject,
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.now, events.Event{
		Type:  events.EventBoardPostCreated,
		Actor: actorOf(identity),
		Payload: events.BoardPostCreatedPayload{
			PostID:   post.ID,
			Category: post.Category,
			Title:    post.Title,
		},
	})
	return post, nil
}

// Update rewrites title and content of a stored post. Category and author never change.
func (s *BoardService) Update(ctx context.Context, identity *domain.Identity, id int64, input PostInput) (*domain.BoardPost, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizePost(identity, post.Category, post.MemberID, policy.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Content = input.Content
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, notFound(err, "post", id)
	}
	return post, nil
}

// Delete removes a stored post.
func (s *BoardService) Delete(ctx context.Context, identity *domain.Identity, id int64) error {
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizePost(identity, post.Category, post.MemberID, policy.ActionDelete); err != nil {
		return err
	}
	return notFound(s.posts.Delete(ctx, id), "post", id)
}

func (s *BoardService) load(ctx context.Context, id int64) (*domain.BoardPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post", id)
	}
	return post, nil
}

func authorizePost(identity *domain.Identity, category domain.BoardCategory, ownerID int64, action policy.Action) error {
	resource := policy.Resource{Category: policy.CategoryForBoard(category), OwnerID: ownerID}
	return policy.Authorize(resource, requesterOf(identity), action)
}

func parseCategory(category string) (domain.BoardCategory, error) {
	cat, ok := domain.ParseBoardCategory(strings.TrimSpace(category))
	if !ok {
		return "", apperrors.NewValidationError("category must be notice or qna", map[string]any{"category": category})
	}
	return cat, nil
}

func validatePostInput(input PostInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidationError("title is required", nil)
	}
	return nil
}
