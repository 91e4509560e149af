package service

import "context"

// Artifact describes one stored export file.
type Artifact struct {
	Key  string
	Size int64
}

// ArtifactStore persists generated certificates and reports as local file
// artifacts. Nothing is transmitted anywhere; downloads go through the
// delivery layer.
type ArtifactStore interface {
	Save(ctx context.Context, key string, contentType string, data []byte) error
	Open(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context) ([]Artifact, error)
}
