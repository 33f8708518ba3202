package pubsub

import (
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// NewCloudEvent creates a standardized CloudEvent v1.0
func NewCloudEvent(source, eventType string, data interface{}) (cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	e.SetSpecVersion("1.0")
	e.SetID(uuid.New().String())
	e.SetTime(time.Now().UTC())
	e.SetType(eventType)
	e.SetSource(source)

	if err := e.SetData(cloudevents.ApplicationJSON, data); err != nil {
		return e, err
	}

	return e, nil
}

// SnapshotRefreshedData is the payload published after a successful refresh.
type SnapshotRefreshedData struct {
	SnapshotID  string    `json:"snapshot_id"`
	RefreshedAt time.Time `json:"refreshed_at"`
	RowCount    int       `json:"row_count"`
	Truncated   bool      `json:"truncated"`
}
