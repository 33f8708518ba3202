// Package database provides the snapshot persistence gateway backed by
// Firestore.
package database

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	shared "github.com/tomruns/stravadash/pkg"
	"github.com/tomruns/stravadash/pkg/domain/activity"
	storage "github.com/tomruns/stravadash/pkg/storage/firestore"
)

// FirestoreAdapter implements shared.SnapshotStore. Store is delete-all
// then insert-all: the row collection is cleared before the new rows go in,
// and the header document is written last so a snapshot only becomes
// visible once its rows are durable.
type FirestoreAdapter struct {
	Client  *firestore.Client
	storage *storage.Client // internal typed wrapper
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{
		Client:  client,
		storage: storage.NewClient(client),
	}
}

func (a *FirestoreAdapter) Store(ctx context.Context, snap *activity.Snapshot) error {
	rows := a.storage.Rows()

	if err := a.deleteAllRows(ctx, rows.Ref); err != nil {
		return fmt.Errorf("clear snapshot rows: %w", err)
	}

	bw := a.Client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	for i := range snap.Rows {
		r := &snap.Rows[i]
		ref := rows.Ref.Doc(strconv.FormatInt(r.ID, 10))
		job, err := bw.Set(ref, rows.ToFirestore(r))
		if err != nil {
			return fmt.Errorf("queue row %d: %w", r.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("write snapshot rows: %w", err)
		}
	}

	meta := &storage.SnapshotMeta{
		ID:          snap.ID,
		RefreshedAt: snap.RefreshedAt,
		Truncated:   snap.Truncated,
		RowCount:    int64(len(snap.Rows)),
	}
	if err := a.storage.Snapshots().Doc(shared.SnapshotMetaDoc).Set(ctx, meta); err != nil {
		return fmt.Errorf("write snapshot meta: %w", err)
	}
	return nil
}

func (a *FirestoreAdapter) Load(ctx context.Context) (*activity.Snapshot, error) {
	meta, err := a.storage.Snapshots().Doc(shared.SnapshotMetaDoc).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("no stored snapshot: %w", err)
	}

	rows := a.storage.Rows()
	// Canonical timestamp text sorts chronologically, so ordering on the
	// stored string restores upstream order.
	iter := rows.Ref.OrderBy("start_date_local", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	snap := &activity.Snapshot{
		ID:          meta.ID,
		RefreshedAt: meta.RefreshedAt,
		Truncated:   meta.Truncated,
	}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot rows: %w", err)
		}
		row, err := rows.FromFirestore(doc.Data())
		if err != nil {
			return nil, err
		}
		snap.Rows = append(snap.Rows, *row)
	}
	return snap, nil
}

func (a *FirestoreAdapter) deleteAllRows(ctx context.Context, col *firestore.CollectionRef) error {
	bw := a.Client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob

	iter := col.DocumentRefs(ctx)
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}
		job, err := bw.Delete(ref)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return err
		}
	}
	return nil
}
