package models

import "time"

// User represents a user profile document in the `users` collection. The
// Firebase Auth UID is the document ID. It is the single profile aggregate:
// billing linkage, subscription state and display fields all live here.
type User struct {
	ID          string `json:"id" firestore:"-"` // Firebase Auth UID, document ID
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"displayName,omitempty" firestore:"displayName"`
	FirstName   string `json:"firstName,omitempty" firestore:"firstName"`
	LastName    string `json:"lastName,omitempty" firestore:"lastName"`
	PhoneNumber string `json:"phoneNumber,omitempty" firestore:"phoneNumber"`
	PhotoURL    string `json:"photoURL,omitempty" firestore:"photoURL"`
	Location    string `json:"location,omitempty" firestore:"location"`
	Bio         string `json:"bio,omitempty" firestore:"bio"`

	// Billing linkage. Written only by server-side billing paths, never by
	// the profile PATCH endpoint.
	StripeCustomerID     string             `json:"stripeCustomerId,omitempty" firestore:"stripeCustomerId"`
	StripeSubscriptionID string             `json:"stripeSubscriptionId,omitempty" firestore:"stripeSubscriptionId"`
	SubscriptionStatus   SubscriptionStatus `json:"subscriptionStatus,omitempty" firestore:"subscriptionStatus"`

	// Cursor of the last applied billing event. Compare-and-set guard so
	// replayed or out-of-order webhook deliveries are no-ops.
	LastBillingEventID string    `json:"-" firestore:"lastBillingEventId"`
	LastBillingEventAt time.Time `json:"-" firestore:"lastBillingEventAt"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
