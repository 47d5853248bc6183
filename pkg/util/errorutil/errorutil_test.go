package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorsKeepHTTP200(t *testing.T) {
	for _, err := range []error{
		NewInvalidToken(),
		NewForbidden("no"),
		NewValidationError("bad", nil),
		NewNotFound("store", nil),
	} {
		domainErr := ToDomainError(err)
		require.NotNil(t, domainErr)
		assert.Equal(t, http.StatusOK, domainErr.HTTPStatus, domainErr.Code)
	}
}

func TestTransportErrorStatuses(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ToDomainError(NewBadRequest("x")).HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(NewUnauthorized("x")).HTTPStatus)
	assert.Equal(t, http.StatusTooManyRequests, ToDomainError(NewRateLimited("x")).HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, ToDomainError(NewInternalError(nil)).HTTPStatus)
}

func TestIsMatchesOnCode(t *testing.T) {
	wrapped := fmt.Errorf("placing order: %w", NewValidationError("menu does not belong to the store", nil))
	assert.ErrorIs(t, wrapped, ErrValidation)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))

	assert.Equal(t, CodeNotFound, ToDomainError(pgx.ErrNoRows).Code)
	assert.Equal(t, CodeNotFound, ToDomainError(fmt.Errorf("lookup: %w", sql.ErrNoRows)).Code)

	internal := ToDomainError(errors.New("connection refused"))
	assert.Equal(t, CodeInternal, internal.Code)
	assert.Equal(t, SystemErrorMessage, internal.Message)
	assert.ErrorContains(t, internal, "connection refused")
}

func TestNewNotFoundMessage(t *testing.T) {
	err := NewNotFound("menu", map[string]any{"id": 3})
	domainErr := ToDomainError(err)
	assert.Equal(t, "menu not found", domainErr.Message)
	assert.Equal(t, 3, domainErr.Details["id"])
}
