// Package firestoredb implements the remote document-store repositories on
// Cloud Firestore.
package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/option"

	"menshub/config"
)

// NewApp initializes the Firebase app shared by the identity provider and
// the Firestore repositories.
func NewApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	if cfg.Firebase == nil {
		return nil, errors.New("firebase config must be provided")
	}

	opts := []option.ClientOption{}
	if cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "initialize firebase app")
	}

	return app, nil
}

// NewClient opens the Firestore client from the shared app.
func NewClient(ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "initialize firestore client")
	}

	return client, nil
}
