package media

import (
	"context"
	"io"

	"gymhub/models"
)

// Store is the remote media store the app uploads member content to.
// Assets are addressed by the provider's opaque remote id; Delete must
// be told the kind because the provider namespaces ids per resource
// type.
type Store interface {
	Upload(ctx context.Context, file io.Reader, folder string) (*models.Media, error)
	Delete(ctx context.Context, remoteID, kind string) error
}
