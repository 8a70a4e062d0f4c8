package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(Subject(r.Context())))
	})
}

func serve(h http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	iss, err := NewIssuer("secret")
	require.NoError(t, err)
	other, _ := NewIssuer("other")
	good, _ := iss.Issue(Identity{ID: "u-1"})
	forged, _ := other.Issue(Identity{ID: "u-1"})

	h := Authenticate(iss)(okHandler())

	rec := serve(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Access denied. No token provided."}`, rec.Body.String())

	rec = serve(h, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, "Bearer "+forged)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid token"}`, rec.Body.String())

	rec = serve(h, "Bearer "+good)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", rec.Body.String())

	rec = serve(h, "bearer "+good)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_ForbiddenRegardlessOfOtherClaims(t *testing.T) {
	t.Parallel()

	iss, _ := NewIssuer("secret")
	h := Authenticate(iss)(RequireAdmin(okHandler()))

	owner, _ := iss.Issue(Identity{ID: "u-1", Username: "root", IsBotOwner: true})
	rec := serve(h, "Bearer "+owner)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin privileges required")

	admin, _ := iss.Issue(Identity{ID: "u-2", IsAdmin: true})
	rec = serve(h, "Bearer "+admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireBotOwner(t *testing.T) {
	t.Parallel()

	iss, _ := NewIssuer("secret")
	h := Authenticate(iss)(RequireBotOwner(okHandler()))

	admin, _ := iss.Issue(Identity{ID: "u-1", IsAdmin: true})
	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer "+admin).Code)

	owner, _ := iss.Issue(Identity{ID: "u-2", IsBotOwner: true})
	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+owner).Code)
}

func TestRequireClaim_WithoutGuard(t *testing.T) {
	t.Parallel()

	rec := serve(RequireAdmin(okHandler()), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
