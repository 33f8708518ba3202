package firestore

import (
	"cloud.google.com/go/firestore"

	shared "github.com/tomruns/stravadash/pkg"
	"github.com/tomruns/stravadash/pkg/domain/activity"
)

type Client struct {
	fs *firestore.Client
}

func NewClient(client *firestore.Client) *Client {
	return &Client{fs: client}
}

func (c *Client) Close() error {
	return c.fs.Close()
}

// Snapshots holds the single snapshot header document.
func (c *Client) Snapshots() *Collection[SnapshotMeta] {
	return &Collection[SnapshotMeta]{
		Ref:           c.fs.Collection(shared.CollectionSnapshots),
		ToFirestore:   SnapshotMetaToFirestore,
		FromFirestore: FirestoreToSnapshotMeta,
	}
}

// Rows holds the snapshot table, one document per activity keyed by the
// activity identifier. The whole collection is replaced on every store.
func (c *Client) Rows() *Collection[activity.Row] {
	return &Collection[activity.Row]{
		Ref:           c.fs.Collection(shared.CollectionSnapshotRows),
		ToFirestore:   RowToFirestore,
		FromFirestore: FirestoreToRow,
	}
}
