// Package billing wraps the payment provider behind a small gateway
// interface so services depend on an explicit handle instead of a
// module-level SDK singleton, and tests can substitute a fake.
package billing

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCustomerNotFound is returned when a customer id or email does not
	// resolve at the provider.
	ErrCustomerNotFound = errors.New("billing customer not found")
	// ErrSubscriptionNotFound is returned when no matching subscription
	// exists at the provider.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrInvalidSignature is returned when a webhook payload fails
	// signature verification.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

// Customer is the provider's customer object, reduced to what this
// application reads.
type Customer struct {
	ID    string
	Email string
}

// CheckoutSession is a hosted checkout session.
type CheckoutSession struct {
	ID             string
	URL            string
	CustomerID     string
	SubscriptionID string
	IsSubscription bool
}

// Subscription is the provider's subscription object, reduced to what this
// application reads. Status carries the provider's raw status string;
// normalization into the application enum happens in the service layer.
type Subscription struct {
	ID                string
	CustomerID        string
	Status            string
	CancelAtPeriodEnd bool
}

// Webhook event types this application dispatches on.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventCheckoutCompleted   = "checkout.session.completed"
)

// Event is a verified webhook event.
type Event struct {
	ID        string
	Type      string
	CreatedAt time.Time

	// Subscription is populated for customer.subscription.* events.
	Subscription *Subscription
	// Checkout is populated for checkout.session.completed events.
	Checkout *CheckoutSession
}

// Gateway is the set of provider operations the services use.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, userID string) (*Customer, error)
	RetrieveCustomer(ctx context.Context, customerID string) (*Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)

	CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL, userID string) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	FindActiveSubscription(ctx context.Context, customerID string) (*Subscription, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*Subscription, error)

	// ParseWebhookEvent verifies the signature against the shared secret and
	// decodes the payload. Verification happens before anything is trusted.
	ParseWebhookEvent(payload []byte, signature string) (*Event, error)
}
