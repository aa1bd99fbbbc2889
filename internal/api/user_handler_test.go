package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"songbook-backend-go/internal/middleware"
	"songbook-backend-go/internal/models"
)

type stubUserService struct {
	user    *models.User
	created bool

	lastPatch models.UpdateProfileRequest
}

func (s *stubUserService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	return s.user, s.created, nil
}

func (s *stubUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.user, nil
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	s.lastPatch = req
	return s.user, nil
}

func newUserTestRouter(svc *stubUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	authMW := middleware.NewAuthMiddleware(stubVerifier{}, zap.NewNop())
	handler := NewUserHandler(svc)

	router.GET("/api/user-profile", authMW.VerifyToken(), handler.GetProfile)
	router.PATCH("/api/user-profile", authMW.VerifyToken(), handler.UpdateProfile)
	return router
}

func TestGetProfileReturnsExisting(t *testing.T) {
	svc := &stubUserService{user: &models.User{ID: "user-1", Email: "a@example.com"}}
	router := newUserTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/user-profile", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetProfileReports201OnFirstCreation(t *testing.T) {
	svc := &stubUserService{user: &models.User{ID: "user-1"}, created: true}
	router := newUserTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/user-profile", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUpdateProfileRejectsUnknownFields(t *testing.T) {
	svc := &stubUserService{user: &models.User{ID: "user-1"}}
	router := newUserTestRouter(svc)

	// subscriptionStatus is not client-writable; the request must fail
	// instead of silently dropping the field.
	body := `{"displayName":"Alice","subscriptionStatus":"active"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/user-profile", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer good-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.lastPatch.DisplayName)
}

func TestUpdateProfilePassesAllowListedFields(t *testing.T) {
	svc := &stubUserService{user: &models.User{ID: "user-1"}}
	router := newUserTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/user-profile", strings.NewReader(`{"displayName":"Alice","bio":"guitarist"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastPatch.DisplayName)
	assert.Equal(t, "Alice", *svc.lastPatch.DisplayName)
	require.NotNil(t, svc.lastPatch.Bio)
	assert.Equal(t, "guitarist", *svc.lastPatch.Bio)
}

func TestUpdateProfileAcceptsEmptyPatch(t *testing.T) {
	svc := &stubUserService{user: &models.User{ID: "user-1"}}
	router := newUserTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/user-profile", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer good-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.lastPatch.Fields())
}
