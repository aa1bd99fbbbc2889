package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// stripeGateway implements Gateway on the Stripe API.
type stripeGateway struct {
	webhookSecret string
}

// NewStripeGateway configures the Stripe SDK with the secret key and returns
// a Gateway that verifies webhooks against webhookSecret.
func NewStripeGateway(secretKey, webhookSecret string) Gateway {
	stripe.Key = secretKey
	return &stripeGateway{webhookSecret: webhookSecret}
}

func (g *stripeGateway) CreateCustomer(ctx context.Context, email, userID string) (*Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("firebaseUID", userID)
	// One customer per user: replaying the creation (e.g. a retried
	// checkout request) returns the same customer instead of minting a
	// duplicate.
	params.IdempotencyKey = stripe.String("customer_" + userID)

	c, err := customer.New(params)
	if err != nil {
		return nil, wrapStripeErr("create customer", err)
	}
	return &Customer{ID: c.ID, Email: c.Email}, nil
}

func (g *stripeGateway) RetrieveCustomer(ctx context.Context, customerID string) (*Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	c, err := customer.Get(customerID, params)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("customer %q: %w", customerID, ErrCustomerNotFound)
		}
		return nil, wrapStripeErr("retrieve customer", err)
	}
	if c.Deleted {
		return nil, fmt.Errorf("customer %q deleted: %w", customerID, ErrCustomerNotFound)
	}
	return &Customer{ID: c.ID, Email: c.Email}, nil
}

func (g *stripeGateway) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	params := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := customer.List(params)
	for iter.Next() {
		c := iter.Customer()
		return &Customer{ID: c.ID, Email: c.Email}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeErr("list customers", err)
	}
	return nil, fmt.Errorf("customer with email %q: %w", email, ErrCustomerNotFound)
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL, userID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:                stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:          stripe.String(successURL),
		CancelURL:           stripe.String(cancelURL),
		AllowPromotionCodes: stripe.Bool(true),
		CustomerUpdate: &stripe.CheckoutSessionCustomerUpdateParams{
			Address: stripe.String("auto"),
			Name:    stripe.String("auto"),
		},
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)

	s, err := session.New(params)
	if err != nil {
		return nil, wrapStripeErr("create checkout session", err)
	}
	return checkoutFromStripe(s), nil
}

func (g *stripeGateway) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("checkout session %q: %w", sessionID, ErrSubscriptionNotFound)
		}
		return nil, wrapStripeErr("retrieve checkout session", err)
	}
	return checkoutFromStripe(s), nil
}

func (g *stripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := portalsession.New(params)
	if err != nil {
		return "", wrapStripeErr("create portal session", err)
	}
	return s.URL, nil
}

func (g *stripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	s, err := subscription.Get(subscriptionID, params)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("subscription %q: %w", subscriptionID, ErrSubscriptionNotFound)
		}
		return nil, wrapStripeErr("retrieve subscription", err)
	}
	return subscriptionFromStripe(s), nil
}

func (g *stripeGateway) FindActiveSubscription(ctx context.Context, customerID string) (*Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := subscription.List(params)
	for iter.Next() {
		return subscriptionFromStripe(iter.Subscription()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeErr("list subscriptions", err)
	}
	return nil, fmt.Errorf("active subscription for customer %q: %w", customerID, ErrSubscriptionNotFound)
}

func (g *stripeGateway) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	s, err := subscription.Update(subscriptionID, params)
	if err != nil {
		if isResourceMissing(err) {
			return nil, fmt.Errorf("subscription %q: %w", subscriptionID, ErrSubscriptionNotFound)
		}
		return nil, wrapStripeErr("cancel subscription", err)
	}
	return subscriptionFromStripe(s), nil
}

func (g *stripeGateway) ParseWebhookEvent(payload []byte, signature string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := &Event{
		ID:        stripeEvent.ID,
		Type:      string(stripeEvent.Type),
		CreatedAt: time.Unix(stripeEvent.Created, 0).UTC(),
	}

	switch event.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var s stripe.Subscription
		if err := json.Unmarshal(stripeEvent.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("failed to decode subscription payload: %w", err)
		}
		event.Subscription = subscriptionFromStripe(&s)
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session payload: %w", err)
		}
		event.Checkout = checkoutFromStripe(&s)
	}

	return event, nil
}

func checkoutFromStripe(s *stripe.CheckoutSession) *CheckoutSession {
	cs := &CheckoutSession{
		ID:             s.ID,
		URL:            s.URL,
		IsSubscription: s.Mode == stripe.CheckoutSessionModeSubscription,
	}
	if s.Customer != nil {
		cs.CustomerID = s.Customer.ID
	}
	if s.Subscription != nil {
		cs.SubscriptionID = s.Subscription.ID
	}
	return cs
}

func subscriptionFromStripe(s *stripe.Subscription) *Subscription {
	sub := &Subscription{
		ID:                s.ID,
		Status:            string(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
	if s.Customer != nil {
		sub.CustomerID = s.Customer.ID
	}
	return sub
}

func isResourceMissing(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == 404
	}
	return false
}

func wrapStripeErr(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("stripe: %s: %s", op, stripeErr.Msg)
	}
	return fmt.Errorf("stripe: %s: %w", op, err)
}
