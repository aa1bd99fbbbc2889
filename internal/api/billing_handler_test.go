package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"songbook-backend-go/internal/billing"
	"songbook-backend-go/internal/core"
	"songbook-backend-go/internal/middleware"
)

// stubVerifier accepts the token "good-token" and rejects everything else.
type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if idToken != "good-token" {
		return nil, assert.AnError
	}
	return &auth.Token{
		UID:    "user-1",
		Claims: map[string]interface{}{"email": "a@example.com"},
	}, nil
}

// stubBillingService returns canned results per method.
type stubBillingService struct {
	checkoutURL string
	checkoutErr error
	webhookErr  error

	webhookCalls int
}

func (s *stubBillingService) CreateCheckoutSession(ctx context.Context, userID, email, priceID string) (string, error) {
	return s.checkoutURL, s.checkoutErr
}

func (s *stubBillingService) CreatePortalSession(ctx context.Context, userID, email string) (string, error) {
	return "https://portal.example.com/bps_1", nil
}

func (s *stubBillingService) HandleWebhookEvent(ctx context.Context, payload []byte, signature string) error {
	s.webhookCalls++
	return s.webhookErr
}

func (s *stubBillingService) CheckSubscription(ctx context.Context, userID string) (*core.SubscriptionCheck, error) {
	return &core.SubscriptionCheck{Active: true}, nil
}

func (s *stubBillingService) CancelSubscription(ctx context.Context, userID, email string) (*billing.Subscription, error) {
	return &billing.Subscription{ID: "sub_1", CancelAtPeriodEnd: true}, nil
}

func (s *stubBillingService) HandleCheckoutSuccess(ctx context.Context, sessionID string) (string, error) {
	return "https://app.example.com/account/profile?subscription=active", nil
}

func newBillingTestRouter(svc core.BillingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	authMW := middleware.NewAuthMiddleware(stubVerifier{}, zap.NewNop())
	handler := NewBillingHandler(svc, zap.NewNop())

	apiGroup := router.Group("/api")
	apiGroup.POST("/create-checkout-session", authMW.VerifyToken(), handler.CreateCheckoutSession)
	apiGroup.POST("/webhooks/stripe", handler.HandleStripeWebhook)
	apiGroup.GET("/check-subscription", authMW.VerifyToken(), handler.CheckSubscription)
	apiGroup.GET("/subscription-success", handler.SubscriptionSuccess)
	return router
}

func TestCreateCheckoutSessionInvalidPriceIDReturns400(t *testing.T) {
	svc := &stubBillingService{checkoutErr: core.ErrInvalidPriceID}
	router := newBillingTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"priceId":"invalid_123"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"Invalid price ID format"}}`, rec.Body.String())
}

func TestCreateCheckoutSessionRequiresAuth(t *testing.T) {
	svc := &stubBillingService{checkoutURL: "https://checkout.example.com/cs_1"}
	router := newBillingTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"priceId":"price_abc123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"priceId":"price_abc123"}`))
	req.Header.Set("Authorization", "Bearer bad-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCheckoutSessionReturnsURL(t *testing.T) {
	svc := &stubBillingService{checkoutURL: "https://checkout.example.com/cs_1"}
	router := newBillingTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"priceId":"price_abc123"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"url":"https://checkout.example.com/cs_1"}`, rec.Body.String())
}

func TestWebhookIsPublicAndAcksDroppedEvents(t *testing.T) {
	// A webhook whose customer matches no profile is dropped by the service
	// (nil error); the provider must still get a 2xx or it retries forever.
	svc := &stubBillingService{}
	router := newBillingTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.webhookCalls)
}

func TestWebhookInvalidSignatureReturns400(t *testing.T) {
	svc := &stubBillingService{webhookErr: billing.ErrInvalidSignature}
	router := newBillingTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookProcessingFailureReturns500(t *testing.T) {
	svc := &stubBillingService{webhookErr: assert.AnError}
	router := newBillingTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCheckSubscriptionReturnsBody(t *testing.T) {
	svc := &stubBillingService{}
	router := newBillingTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/check-subscription", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"active":true,"subscription":null}`, rec.Body.String())
}

func TestSubscriptionSuccessRedirects(t *testing.T) {
	svc := &stubBillingService{}
	router := newBillingTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/subscription-success?session_id=cs_1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "https://app.example.com/account/profile?subscription=active", rec.Header().Get("Location"))
}
