package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"songbook-backend-go/internal/billing"
	"songbook-backend-go/internal/core"
	"songbook-backend-go/internal/models"
)

// maxWebhookBody bounds the webhook payload read. Provider events are small;
// anything larger is not a legitimate event.
const maxWebhookBody = 1 << 20

// BillingHandler handles checkout, portal, webhook and subscription
// endpoints.
type BillingHandler struct {
	billingService core.BillingService
	logger         *zap.Logger
}

// NewBillingHandler creates a BillingHandler.
func NewBillingHandler(bs core.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: bs, logger: logger}
}

// CreateCheckoutSession handles POST /api/create-checkout-session.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("Invalid request body"))
		return
	}

	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), userID, c.GetString("userEmail"), req.PriceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, URLResponse{URL: url})
}

// CreatePortalSession handles POST /api/create-portal-session.
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	url, err := h.billingService.CreatePortalSession(c.Request.Context(), userID, c.GetString("userEmail"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, URLResponse{URL: url})
}

// HandleStripeWebhook handles POST /api/webhooks/stripe. The route is
// public; the signature header is the authentication. The raw body must be
// read unmodified or verification fails.
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("Failed to read request body"))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.billingService.HandleWebhookEvent(c.Request.Context(), payload, signature); err != nil {
		// Signature failures get a 400 so the provider does not retry
		// forever; transient processing failures get a 500 so delivery is
		// retried.
		h.logger.Warn("webhook processing failed", zap.Error(err))
		if errors.Is(err, billing.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, NewErrorResponse("Webhook verification failed"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse("Webhook processing failed"))
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "received"})
}

// CheckSubscription handles GET /api/check-subscription.
func (h *BillingHandler) CheckSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	check, err := h.billingService.CheckSubscription(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// CancelSubscription handles POST /api/cancel-subscription. Cancellation is
// at period end, not immediate.
func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sub, err := h.billingService.CancelSubscription(c.Request.Context(), userID, c.GetString("userEmail"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            "canceled",
		"subscriptionId":    sub.ID,
		"cancelAtPeriodEnd": sub.CancelAtPeriodEnd,
	})
}

// SubscriptionSuccess handles GET /api/subscription-success. It is the
// hosted-checkout return leg: the browser lands here, the session is
// resolved and the user is redirected back into the client.
func (h *BillingHandler) SubscriptionSuccess(c *gin.Context) {
	redirectURL, err := h.billingService.HandleCheckoutSuccess(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
