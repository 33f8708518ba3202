package shared

const (
	ProjectID = "stravadash-project" // Can be overridden by env var in main if needed

	TopicSnapshotRefreshed = "topic-snapshot-refreshed"

	CollectionSnapshots    = "snapshots"
	CollectionSnapshotRows = "snapshot_rows"

	// SnapshotMetaDoc is the single meta document; the table holds exactly
	// one snapshot at a time.
	SnapshotMetaDoc = "current"
)
