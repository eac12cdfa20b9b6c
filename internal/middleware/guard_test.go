package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/auth"
	apperrors "taskpilot/internal/errors"
)

func runGuard(t *testing.T, header string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	err := RequireUser(auth.NewJWTService("test-secret"))(next)(c)
	return c, called, err
}

func TestRequireUser_ValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.NewJWTService("test-secret").GenerateSessionToken(userID)
	require.NoError(t, err)

	c, called, err := runGuard(t, "Bearer "+token)

	require.NoError(t, err)
	assert.True(t, called)
	got, ok := UserID(c)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestRequireUser_SchemeIsCaseInsensitive(t *testing.T) {
	userID := uuid.New()
	token, err := auth.NewJWTService("test-secret").GenerateSessionToken(userID)
	require.NoError(t, err)

	c, called, err := runGuard(t, "bearer "+token)

	require.NoError(t, err)
	assert.True(t, called)
	got, _ := UserID(c)
	assert.Equal(t, userID, got)
}

func TestRequireUser_Rejects(t *testing.T) {
	otherSecret, err := auth.NewJWTService("other-secret").GenerateSessionToken(uuid.New())
	require.NoError(t, err)
	resetToken, err := auth.NewJWTService("test-secret").GenerateResetToken("alice@example.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{name: "no header", header: "", wantMsg: "Not authorized, no token"},
		{name: "wrong scheme", header: "Basic abc", wantMsg: "Not authorized, no token"},
		{name: "empty bearer", header: "Bearer ", wantMsg: "Not authorized, no token"},
		{name: "garbage token", header: "Bearer not.a.jwt", wantMsg: "Not authorized, token failed"},
		{name: "lowercase scheme garbage token", header: "bearer not.a.jwt", wantMsg: "Not authorized, token failed"},
		{name: "uppercase scheme empty token", header: "BEARER ", wantMsg: "Not authorized, no token"},
		{name: "foreign signature", header: "Bearer " + otherSecret, wantMsg: "Not authorized, token failed"},
		{name: "reset token", header: "Bearer " + resetToken, wantMsg: "Not authorized, token failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, called, err := runGuard(t, tt.header)

			assert.False(t, called)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.KindAuth, appErr.Kind)
			assert.Equal(t, tt.wantMsg, appErr.Message)
			_, ok := UserID(c)
			assert.False(t, ok)
		})
	}
}
