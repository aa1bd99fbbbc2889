package db

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"songbook-backend-go/internal/config"
)

// Clients bundles the Firebase-backed handles the application depends on.
// They are constructed once at startup and passed down explicitly.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
}

// NewFirebaseClients initializes the Firebase Admin SDK from the configured
// credentials and returns the Firestore and Auth clients.
func NewFirebaseClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	if cfg == nil {
		return nil, fmt.Errorf("NewFirebaseClients: cfg cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case cfg.GoogleApplicationCredentials != "":
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleApplicationCredentials))
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	default:
		// Fall through to Application Default Credentials.
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	return &Clients{Firestore: fs, Auth: authClient}, nil
}

// Close releases the Firestore connection.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
