package shared

import (
	"context"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/tomruns/stravadash/pkg/domain/activity"
)

// --- Persistence Interfaces ---

// SnapshotStore persists the assembled activity table whole. Store replaces
// the entire table (delete-all then insert-all); partial overwrites are not
// supported.
type SnapshotStore interface {
	Load(ctx context.Context) (*activity.Snapshot, error)
	Store(ctx context.Context, snapshot *activity.Snapshot) error
}

// --- Messaging Interfaces ---

type Publisher interface {
	PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error)
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}
