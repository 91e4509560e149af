// Package blob stores export artifacts through the Go CDK blob API. The
// default bucket is a local directory; certificates and reports are files
// saved on this machine, nothing is transmitted.
package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/Manuufarina/gestion-zoonosis/config"
	domainerrors "github.com/Manuufarina/gestion-zoonosis/internal/domain/errors"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

type artifactStore struct {
	bucket *blob.Bucket
}

// StoreParams holds dependencies for the artifact store, injected by Fx.
type StoreParams struct {
	fx.In

	Lc  fx.Lifecycle
	Ctx context.Context
	Cfg *config.Config
}

// NewArtifactStore opens (creating if needed) the configured export directory.
func NewArtifactStore(params StoreParams) (service.ArtifactStore, error) {
	dir := params.Cfg.Exports.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create exports directory")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve exports directory")
	}

	bucket, err := fileblob.OpenBucket(abs, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open exports bucket")
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	return &artifactStore{bucket: bucket}, nil
}

// NewArtifactStoreAt opens a store over an arbitrary directory. Used by tests.
func NewArtifactStoreAt(dir string) (service.ArtifactStore, func() error, error) {
	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open exports bucket")
	}

	return &artifactStore{bucket: bucket}, bucket.Close, nil
}

func (s *artifactStore) Save(ctx context.Context, key string, contentType string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: contentType}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return errors.Wrapf(err, "failed to write artifact %s", key)
	}

	return nil
}

func (s *artifactStore) Open(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, domainerrors.ErrArtifactNotFound.WithDetails(key)
		}

		return nil, errors.Wrapf(err, "failed to read artifact %s", key)
	}

	return data, nil
}

func (s *artifactStore) List(ctx context.Context) ([]service.Artifact, error) {
	var artifacts []service.Artifact
	it := s.bucket.List(nil)
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to list artifacts")
		}
		artifacts = append(artifacts, service.Artifact{Key: obj.Key, Size: obj.Size})
	}

	return artifacts, nil
}
