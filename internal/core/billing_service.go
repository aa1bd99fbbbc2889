package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"songbook-backend-go/internal/billing"
	"songbook-backend-go/internal/cache"
	"songbook-backend-go/internal/db"
	"songbook-backend-go/internal/messagequeue"
	"songbook-backend-go/internal/models"
)

// priceIDPattern is pattern validation only, not existence validation: the
// provider rejects unknown price ids during session creation.
var priceIDPattern = regexp.MustCompile(`^price_[A-Za-z0-9_]{3,}$`)

const (
	subscriptionCheckTTL   = time.Minute
	subscriptionEventQueue = "subscription-events"
)

// BillingConfig carries the static billing settings.
type BillingConfig struct {
	AppBaseURL     string
	DefaultPriceID string
}

type billingService struct {
	users     db.UserRepository
	gateway   billing.Gateway
	cache     cache.Cache            // optional
	publisher messagequeue.Publisher // optional
	logger    *zap.Logger
	cfg       BillingConfig
}

// NewBillingService creates a BillingService. cacheClient and publisher may
// be nil; caching and notification publishing are then skipped.
func NewBillingService(
	users db.UserRepository,
	gateway billing.Gateway,
	cacheClient cache.Cache,
	publisher messagequeue.Publisher,
	logger *zap.Logger,
	cfg BillingConfig,
) BillingService {
	return &billingService{
		users:     users,
		gateway:   gateway,
		cache:     cacheClient,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateCheckoutSession resolves or creates the caller's billing customer
// and starts a hosted checkout for the given price. The price id is
// validated lexically before any external call.
func (s *billingService) CreateCheckoutSession(ctx context.Context, userID, email, priceID string) (string, error) {
	if priceID == "" {
		priceID = s.cfg.DefaultPriceID
	}
	if !priceIDPattern.MatchString(priceID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriceID, priceID)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return "", err
	}

	customerID, err := s.resolveOrCreateCustomer(ctx, user, email)
	if err != nil {
		return "", err
	}

	successURL := s.cfg.AppBaseURL + "/account/subscription?success=true&session_id={CHECKOUT_SESSION_ID}"
	cancelURL := s.cfg.AppBaseURL + "/account/subscription?canceled=true"

	session, err := s.gateway.CreateCheckoutSession(ctx, customerID, priceID, successURL, cancelURL, userID)
	if err != nil {
		return "", err
	}
	if session.URL == "" {
		return "", fmt.Errorf("checkout session %q has no hosted URL", session.ID)
	}

	s.logger.Info("checkout session created",
		zap.String("userId", userID),
		zap.String("customerId", customerID),
		zap.String("sessionId", session.ID))
	return session.URL, nil
}

// resolveOrCreateCustomer returns the profile's billing customer id,
// re-validating a stored id against the provider and minting a new customer
// only when none resolves. A provider outage is surfaced as an error rather
// than treated as a missing customer, so transient failures cannot cause
// duplicate customer objects.
func (s *billingService) resolveOrCreateCustomer(ctx context.Context, user *models.User, email string) (string, error) {
	if user.StripeCustomerID != "" {
		_, err := s.gateway.RetrieveCustomer(ctx, user.StripeCustomerID)
		if err == nil {
			return user.StripeCustomerID, nil
		}
		if !errors.Is(err, billing.ErrCustomerNotFound) {
			return "", err
		}
		s.logger.Warn("stored billing customer no longer resolves, creating a new one",
			zap.String("userId", user.ID),
			zap.String("customerId", user.StripeCustomerID))
	}

	created, err := s.gateway.CreateCustomer(ctx, email, user.ID)
	if err != nil {
		return "", err
	}
	if err := s.users.SetStripeCustomerID(ctx, user.ID, created.ID); err != nil {
		return "", fmt.Errorf("failed to persist customer id for %q: %w", user.ID, err)
	}
	return created.ID, nil
}

func (s *billingService) CreatePortalSession(ctx context.Context, userID, email string) (string, error) {
	customerID, err := s.findCustomerID(ctx, userID, email)
	if err != nil {
		return "", err
	}
	return s.gateway.CreatePortalSession(ctx, customerID, s.cfg.AppBaseURL+"/account")
}

// findCustomerID resolves the caller's billing customer from the profile,
// falling back to an email lookup at the provider. A customer found by email
// is linked back onto the profile.
func (s *billingService) findCustomerID(ctx context.Context, userID, email string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return "", err
	}
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}
	if email == "" {
		return "", ErrNoBillingCustomer
	}

	found, err := s.gateway.FindCustomerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, billing.ErrCustomerNotFound) {
			return "", ErrNoBillingCustomer
		}
		return "", err
	}
	if err := s.users.SetStripeCustomerID(ctx, userID, found.ID); err != nil {
		s.logger.Warn("failed to link customer found by email",
			zap.String("userId", userID), zap.Error(err))
	}
	return found.ID, nil
}

// HandleWebhookEvent verifies and applies one provider event. Signature
// verification happens before anything else; an unmatched customer id is
// logged and dropped so the provider still receives a success response.
func (s *billingService) HandleWebhookEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhookEvent(payload, signature)
	if err != nil {
		return err
	}

	var upd db.BillingEventUpdate
	switch event.Type {
	case billing.EventSubscriptionCreated, billing.EventSubscriptionUpdated:
		sub := event.Subscription
		upd = db.BillingEventUpdate{
			CustomerID:        sub.CustomerID,
			Status:            models.StatusFromProvider(sub.Status),
			SubscriptionID:    sub.ID,
			SetSubscriptionID: true,
		}
	case billing.EventSubscriptionDeleted:
		upd = db.BillingEventUpdate{
			CustomerID: event.Subscription.CustomerID,
			Status:     models.StatusCanceled,
		}
	case billing.EventCheckoutCompleted:
		checkout := event.Checkout
		if !checkout.IsSubscription || checkout.SubscriptionID == "" {
			return nil
		}
		// No customer id means nothing to match a profile against. Drop it;
		// a retry would carry the same payload and fail the same way.
		if checkout.CustomerID == "" {
			s.logger.Warn("checkout event without customer id dropped",
				zap.String("eventId", event.ID),
				zap.String("sessionId", checkout.ID))
			return nil
		}
		// Re-fetch the subscription by id rather than trusting the
		// checkout payload's snapshot.
		sub, err := s.gateway.GetSubscription(ctx, checkout.SubscriptionID)
		if err != nil {
			return err
		}
		upd = db.BillingEventUpdate{
			CustomerID:        checkout.CustomerID,
			Status:            models.StatusFromProvider(sub.Status),
			SubscriptionID:    sub.ID,
			SetSubscriptionID: true,
		}
	default:
		s.logger.Debug("unhandled webhook event type", zap.String("type", event.Type))
		return nil
	}

	upd.EventID = event.ID
	upd.EventAt = event.CreatedAt

	applied, matchedUserID, err := s.users.ApplyBillingEvent(ctx, upd)
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("webhook event not applied (no matching profile or stale event)",
			zap.String("eventId", event.ID),
			zap.String("type", event.Type),
			zap.String("customerId", upd.CustomerID))
		return nil
	}

	s.invalidateSubscriptionCache(ctx, matchedUserID)
	s.publishSubscriptionChange(upd)

	s.logger.Info("subscription state updated from webhook",
		zap.String("eventId", event.ID),
		zap.String("type", event.Type),
		zap.String("customerId", upd.CustomerID),
		zap.String("status", string(upd.Status)))
	return nil
}

func (s *billingService) CheckSubscription(ctx context.Context, userID string) (*SubscriptionCheck, error) {
	cacheKey := "subcheck:" + userID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var check SubscriptionCheck
			if err := json.Unmarshal([]byte(cached), &check); err == nil {
				return &check, nil
			}
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, err
	}
	if user.StripeCustomerID == "" {
		return nil, ErrNoBillingCustomer
	}

	check := &SubscriptionCheck{}
	sub, err := s.gateway.FindActiveSubscription(ctx, user.StripeCustomerID)
	switch {
	case err == nil:
		check.Active = true
		check.Subscription = sub
	case errors.Is(err, billing.ErrSubscriptionNotFound):
		// Not active; check stays zero-valued.
	default:
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(check); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(encoded), subscriptionCheckTTL); err != nil {
				s.logger.Warn("failed to cache subscription check", zap.Error(err))
			}
		}
	}
	return check, nil
}

func (s *billingService) CancelSubscription(ctx context.Context, userID, email string) (*billing.Subscription, error) {
	customerID, err := s.findCustomerID(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	sub, err := s.gateway.FindActiveSubscription(ctx, customerID)
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}

	canceled, err := s.gateway.CancelAtPeriodEnd(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	// The stored status uses the normalized enum, same as every other write
	// path, never the provider's raw status string.
	if err := s.users.SetSubscriptionState(ctx, userID, models.StatusCanceled, sub.ID); err != nil {
		return nil, err
	}
	s.invalidateSubscriptionCache(ctx, userID)

	s.logger.Info("subscription canceled at period end",
		zap.String("userId", userID),
		zap.String("subscriptionId", sub.ID))
	return canceled, nil
}

// HandleCheckoutSuccess is the synchronous return leg of hosted checkout.
// Failures redirect back to the subscription page with an error code; the
// asynchronous webhook remains the authoritative write path.
func (s *billingService) HandleCheckoutSuccess(ctx context.Context, sessionID string) (string, error) {
	subscriptionPage := s.cfg.AppBaseURL + "/account/subscription"
	if sessionID == "" {
		return subscriptionPage + "?error=missing_session", nil
	}

	session, err := s.gateway.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		s.logger.Warn("failed to retrieve checkout session", zap.String("sessionId", sessionID), zap.Error(err))
		return subscriptionPage + "?error=unknown", nil
	}
	if session.CustomerID == "" {
		return subscriptionPage + "?error=missing_customer", nil
	}
	if session.SubscriptionID == "" {
		return subscriptionPage + "?error=unknown", nil
	}

	sub, err := s.gateway.GetSubscription(ctx, session.SubscriptionID)
	if err != nil {
		s.logger.Warn("failed to retrieve subscription", zap.String("subscriptionId", session.SubscriptionID), zap.Error(err))
		return subscriptionPage + "?error=unknown", nil
	}

	user, err := s.users.GetByStripeCustomerID(ctx, session.CustomerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("checkout completed for unknown customer", zap.String("customerId", session.CustomerID))
			return subscriptionPage + "?error=unknown", nil
		}
		return "", err
	}

	if err := s.users.SetSubscriptionState(ctx, user.ID, models.StatusFromProvider(sub.Status), sub.ID); err != nil {
		return "", err
	}
	s.invalidateSubscriptionCache(ctx, user.ID)

	return s.cfg.AppBaseURL + "/account/profile?subscription=active", nil
}

func (s *billingService) invalidateSubscriptionCache(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "subcheck:"+key); err != nil {
		s.logger.Warn("failed to invalidate subscription cache", zap.String("key", key), zap.Error(err))
	}
}

// publishSubscriptionChange emits a notification message for out-of-process
// consumers. Publishing is best effort; a broker failure never fails the
// webhook.
func (s *billingService) publishSubscriptionChange(upd db.BillingEventUpdate) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]string{
		"customerId": upd.CustomerID,
		"status":     string(upd.Status),
		"eventId":    upd.EventID,
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(subscriptionEventQueue, body); err != nil {
		s.logger.Warn("failed to publish subscription change", zap.Error(err))
	}
}
