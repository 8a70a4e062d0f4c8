package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	t.Parallel()

	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindConflict:        http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindRateLimited:     http.StatusTooManyRequests,
		KindUpstream:        http.StatusInternalServerError,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), kind.String())
	}
}

func TestKindOf_WrappedChain(t *testing.T) {
	t.Parallel()

	base := NotFound("User not found")
	wrapped := fmt.Errorf("load profile: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "User not found", e.Message)

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestError_MessageAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	e := Upstream("database unavailable", cause)

	assert.Equal(t, "database unavailable: connection refused", e.Error())
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "Invalid token", Forbidden("Invalid token").Error())
}
