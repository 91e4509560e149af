// Package firestore implements the remote collection store contracts on top
// of the Cloud Firestore SDK. One generic collection type serves every
// entity; the per-entity constructors only fix the path template.
package firestore

import (
	"context"

	"github.com/Manuufarina/gestion-zoonosis/config"

	fs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// ClientParams holds dependencies for the Firestore client, injected by Fx.
type ClientParams struct {
	fx.In

	Lc  fx.Lifecycle
	Ctx context.Context
	Cfg *config.Config
}

// NewClient initializes the Firebase app and returns its Firestore client.
func NewClient(params ClientParams) (*fs.Client, error) {
	if params.Cfg.Firebase == nil {
		return nil, errors.New("firebase configuration missing")
	}

	var opts []option.ClientOption
	if params.Cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(params.Cfg.Firebase.CredentialsPath))
	}

	app, err := firebase.NewApp(params.Ctx, &firebase.Config{
		ProjectID: params.Cfg.Firebase.ProjectID,
	}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Firestore(params.Ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get Firestore client")
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	return client, nil
}
