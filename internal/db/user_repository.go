package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"songbook-backend-go/internal/models"
)

const usersCollection = "users"

// firestoreUserRepository implements UserRepository on Firestore. The
// Firebase Auth UID is the document ID of each profile.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a UserRepository backed by Firestore.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

func (r *firestoreUserRepository) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID)
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	snap, err := r.doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user %q: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %q: %w", userID, err)
	}
	return decodeUser(snap)
}

// GetByStripeCustomerID locates the profile holding the given billing
// customer id. This is a query scan, not a primary-key fetch; the webhook
// path only knows the customer id.
func (r *firestoreUserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	if customerID == "" {
		return nil, errors.New("customerID cannot be empty")
	}
	iter := r.client.Collection(usersCollection).
		Where("stripeCustomerId", "==", customerID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("no user with customer %q: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by customer %q: %w", customerID, err)
	}
	return decodeUser(snap)
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty")
	}
	_, err := r.doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user %q already exists: %w", user.ID, err)
		}
		return fmt.Errorf("failed to create user %q: %w", user.ID, err)
	}
	return nil
}

func (r *firestoreUserRepository) Patch(ctx context.Context, userID string, fields map[string]interface{}) error {
	if userID == "" {
		return errors.New("userID cannot be empty")
	}
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	if _, err := r.doc(userID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user %q: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to patch user %q: %w", userID, err)
	}
	return nil
}

func (r *firestoreUserRepository) SetStripeCustomerID(ctx context.Context, userID, customerID string) error {
	return r.Patch(ctx, userID, map[string]interface{}{
		"stripeCustomerId": customerID,
	})
}

func (r *firestoreUserRepository) SetSubscriptionState(ctx context.Context, userID string, st models.SubscriptionStatus, subscriptionID string) error {
	fields := map[string]interface{}{
		"subscriptionStatus": st,
	}
	if subscriptionID != "" {
		fields["stripeSubscriptionId"] = subscriptionID
	}
	return r.Patch(ctx, userID, fields)
}

// ApplyBillingEvent runs a transaction that re-reads the profile and only
// writes when the incoming event is newer than the stored cursor. The
// webhook path and the checkout path both funnel subscription-state writes
// through here, so concurrent deliveries cannot regress the status.
func (r *firestoreUserRepository) ApplyBillingEvent(ctx context.Context, upd BillingEventUpdate) (bool, string, error) {
	if upd.CustomerID == "" {
		return false, "", errors.New("customerID cannot be empty")
	}

	applied := false
	matchedUserID := ""
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		applied = false
		matchedUserID = ""

		query := r.client.Collection(usersCollection).
			Where("stripeCustomerId", "==", upd.CustomerID).
			Limit(1)
		iter := tx.Documents(query)
		defer iter.Stop()

		snap, err := iter.Next()
		if err == iterator.Done {
			// No matching profile; the caller logs and drops the event.
			return nil
		}
		if err != nil {
			return err
		}

		user, err := decodeUser(snap)
		if err != nil {
			return err
		}

		// Stale event: the stored cursor is past this event's timestamp.
		if upd.EventAt.Before(user.LastBillingEventAt) {
			return nil
		}
		// Replay of the already-applied event. Equal timestamps with a
		// different event id still apply: the provider's event clock has
		// one-second resolution, so distinct events in the same second are
		// routine (e.g. subscription created then activated).
		if upd.EventAt.Equal(user.LastBillingEventAt) && upd.EventID == user.LastBillingEventID {
			return nil
		}

		updates := []firestore.Update{
			{Path: "subscriptionStatus", Value: upd.Status},
			{Path: "lastBillingEventId", Value: upd.EventID},
			{Path: "lastBillingEventAt", Value: upd.EventAt},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}
		if upd.SetSubscriptionID {
			updates = append(updates, firestore.Update{Path: "stripeSubscriptionId", Value: upd.SubscriptionID})
		}
		if err := tx.Update(snap.Ref, updates); err != nil {
			return err
		}
		applied = true
		matchedUserID = snap.Ref.ID
		return nil
	})
	if err != nil {
		return false, "", fmt.Errorf("failed to apply billing event %q: %w", upd.EventID, err)
	}
	return applied, matchedUserID, nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (*models.User, error) {
	var user models.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %q: %w", snap.Ref.ID, err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}
