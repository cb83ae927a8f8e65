package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"dentalclinic/internal/messages"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrDuplicateEntry, http.StatusConflict},
		{ErrConflict, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusCode(tc.err), tc.err.Error())
	}
}

func TestWithMessage_CarriesCodeAndSentinel(t *testing.T) {
	err := Conflict(messages.PrescriptionExists)

	assert.Equal(t, messages.PrescriptionExists.Text(), err.Error())
	assert.Equal(t, messages.PrescriptionExists, err.MessageCode)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, "CONFLICT", err.Code)
	assert.True(t, Is(err, ErrConflict))
}

func TestAs_FindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", Forbidden(messages.Forbidden))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, messages.Forbidden, appErr.MessageCode)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestDeadlineExceededMapsToTimeout(t *testing.T) {
	err := fmt.Errorf("query: %w", context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, StatusCode(err))
	assert.Equal(t, "TIMEOUT", ErrorCode(err))
}
