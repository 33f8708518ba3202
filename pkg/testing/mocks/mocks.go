package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/tomruns/stravadash/pkg/domain/activity"
	"github.com/tomruns/stravadash/pkg/integrations/meteo"
	"github.com/tomruns/stravadash/pkg/integrations/strava"
)

// --- Mock Snapshot Store ---
type MockSnapshotStore struct {
	LoadFunc  func(ctx context.Context) (*activity.Snapshot, error)
	StoreFunc func(ctx context.Context, snapshot *activity.Snapshot) error
}

func (m *MockSnapshotStore) Load(ctx context.Context) (*activity.Snapshot, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return nil, fmt.Errorf("no stored snapshot")
}
func (m *MockSnapshotStore) Store(ctx context.Context, snapshot *activity.Snapshot) error {
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, snapshot)
	}
	return nil
}

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "msg-id", nil
}

// --- Mock Storage ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return []byte("mock-data"), nil
}

// --- Mock Activity Source ---
type MockActivitySource struct {
	AuthenticateFunc       func(ctx context.Context) error
	FetchAllActivitiesFunc func(ctx context.Context) ([]strava.SummaryActivity, bool, error)
	GetGearFunc            func(ctx context.Context, gearID string) (*strava.Gear, error)
}

func (m *MockActivitySource) Authenticate(ctx context.Context) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx)
	}
	return nil
}
func (m *MockActivitySource) FetchAllActivities(ctx context.Context) ([]strava.SummaryActivity, bool, error) {
	if m.FetchAllActivitiesFunc != nil {
		return m.FetchAllActivitiesFunc(ctx)
	}
	return nil, false, nil
}
func (m *MockActivitySource) GetGear(ctx context.Context, gearID string) (*strava.Gear, error) {
	if m.GetGearFunc != nil {
		return m.GetGearFunc(ctx, gearID)
	}
	return nil, fmt.Errorf("gear not found")
}

// --- Mock Weather Source ---
type MockWeatherSource struct {
	HourlySampleFunc func(ctx context.Context, lat, lng float64, hour time.Time) (*meteo.Sample, error)
}

func (m *MockWeatherSource) HourlySample(ctx context.Context, lat, lng float64, hour time.Time) (*meteo.Sample, error) {
	if m.HourlySampleFunc != nil {
		return m.HourlySampleFunc(ctx, lat, lng, hour)
	}
	return nil, nil
}
