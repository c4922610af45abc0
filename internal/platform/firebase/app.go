// Package firebase initializes the long-lived identity provider and
// document store clients. Both are created once at startup and shared by
// every request; connection pooling is the client libraries' concern.
package firebase

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Config holds Firebase connection settings.
type Config struct {
	ProjectID string
	// CredentialsFile is a path to a service account JSON file. Only used in
	// local development; deployed environments rely on ambient credentials.
	CredentialsFile string
}

// Clients bundles the initialized provider clients.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// NewClients sets up the Firebase app and returns its auth and Firestore
// clients.
func NewClients(ctx context.Context, cfg Config) (*Clients, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		creds, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, err
	}

	ac, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	fc, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}

	return &Clients{Auth: ac, Firestore: fc}, nil
}

// Close releases the Firestore client.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
