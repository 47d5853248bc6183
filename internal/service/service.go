package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/policy"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// Clock returns the current instant.
type Clock func() time.Time

// ThumbnailStore persists an uploaded image and returns its public path.
type ThumbnailStore interface {
	Save(filename string, content io.Reader) (string, error)
}

// Upload is an optional file attached to a create or update request.
type Upload struct {
	Filename string
	Content  io.Reader
}

func requesterOf(identity *domain.Identity) policy.Requester {
	return policy.RequesterFrom(identity)
}

// notFound converts a missing row into a NOT_FOUND error naming the resource.
func notFound(err error, resource string, id any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}

func saveThumbnail(store ThumbnailStore, upload *Upload) (string, error) {
	if upload == nil || upload.Content == nil || upload.Filename == "" {
		return "", nil
	}
	if store == nil {
		return "", apperrors.NewValidationError("thumbnail uploads are disabled", nil)
	}
	return store.Save(upload.Filename, upload.Content)
}

func actorOf(identity *domain.Identity) events.Actor {
	if identity == nil {
		return events.Actor{}
	}
	return events.Actor{MemberID: identity.MemberID, Role: identity.Role}
}

func publishEvent(ctx context.Context, publisher events.Publisher, now Clock, event events.Event) {
	if publisher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now()
	}
	_ = publisher.Publish(ctx, event)
}
