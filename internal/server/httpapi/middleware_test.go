package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkazmin/bountyboard/internal/common"
	"github.com/vkazmin/bountyboard/internal/logging"
	"github.com/vkazmin/bountyboard/internal/server/auth"
	"github.com/vkazmin/bountyboard/internal/server/models"
)

var testSecret = []byte("test-secret")

func newTestServer() *Server {
	return &Server{
		secret: testSecret,
		logger: logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))),
	}
}

func protectedRouter(s *Server, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{s.authenticate()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": claimsFrom(c).UserID})
	})
	r.GET("/probe", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	s := newTestServer()
	r := protectedRouter(s)

	token, err := auth.GenerateToken(42, models.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)

	expired, err := auth.GenerateToken(42, models.RoleUser, testSecret, -time.Minute)
	require.NoError(t, err)

	forged, err := auth.GenerateToken(42, models.RoleUser, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + forged, http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	s := newTestServer()
	r := protectedRouter(s, s.requireAdmin())

	userToken, err := auth.GenerateToken(1, models.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken(2, models.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+adminToken).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{common.ErrorValidation, http.StatusBadRequest},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrorForbidden, http.StatusForbidden},
		{common.ErrorAccountBlocked, http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrorConflict, http.StatusConflict},
		{common.ErrorAlreadyExists, http.StatusConflict},
		{errors.New("db on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}

	// Wrapped sentinels map the same as bare ones.
	wrapped := errors.Join(errors.New("context"), common.ErrorConflict)
	assert.Equal(t, http.StatusConflict, statusFor(wrapped))
}
