package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// ThumbnailField is the multipart part carrying an uploaded image.
const ThumbnailField = "thumbnailFile"

func success(c *fiber.Ctx, data any, message string) error {
	return c.JSON(dto.Success(data, message))
}

// identity returns the caller or nil for anonymous requests.
func identity(c *fiber.Ctx) *domain.Identity {
	id, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil
	}
	return id
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequest("invalid " + name)
	}
	return id, nil
}

func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	return nil
}

// thumbnail opens the optional uploaded image. The returned closer is never nil.
func thumbnail(c *fiber.Ctx) (*service.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, noop, nil
	}
	header, err := c.FormFile(ThumbnailField)
	if err != nil || header == nil || header.Size == 0 {
		return nil, noop, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, apperrors.NewBadRequest("unreadable thumbnail")
	}
	return &service.Upload{Filename: header.Filename, Content: file}, func() { _ = file.Close() }, nil
}
