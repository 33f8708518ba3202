package meteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const archiveBody = `{
	"hourly": {
		"time": ["2025-03-15T13:00", "2025-03-15T14:00", "2025-03-15T15:00"],
		"temperature_2m": [51.3, 53.6, null],
		"relative_humidity_2m": [82, 78, 75]
	}
}`

func testClient(url string) *Client {
	c := NewClient()
	c.baseURL = url
	return c
}

func TestHourlySample(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("hourly"); got != "temperature_2m,relative_humidity_2m" {
			t.Errorf("hourly = %q", got)
		}
		if got := q.Get("temperature_unit"); got != "fahrenheit" {
			t.Errorf("temperature_unit = %q", got)
		}
		if got := q.Get("start_date"); got != "2025-03-15" {
			t.Errorf("start_date = %q", got)
		}
		w.Write([]byte(archiveBody))
	}))
	defer ts.Close()

	hour := time.Date(2025, time.March, 15, 14, 0, 0, 0, time.UTC)
	sample, err := testClient(ts.URL).HourlySample(context.Background(), 40.7, -74.0, hour)
	if err != nil {
		t.Fatalf("HourlySample: %v", err)
	}
	if sample == nil {
		t.Fatal("expected a sample for a covered hour")
	}
	if sample.TempF != 53.6 {
		t.Errorf("TempF = %v, want 53.6", sample.TempF)
	}
	if sample.Humidity != 78 {
		t.Errorf("Humidity = %v, want 78", sample.Humidity)
	}
}

func TestHourlySampleMissingHour(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(archiveBody))
	}))
	defer ts.Close()

	hour := time.Date(2025, time.March, 16, 9, 0, 0, 0, time.UTC)
	sample, err := testClient(ts.URL).HourlySample(context.Background(), 40.7, -74.0, hour)
	if err != nil {
		t.Fatalf("HourlySample: %v", err)
	}
	if sample != nil {
		t.Errorf("expected nil sample for an uncovered hour, got %+v", sample)
	}
}

func TestHourlySampleNullValue(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(archiveBody))
	}))
	defer ts.Close()

	// 15:00 has a null temperature.
	hour := time.Date(2025, time.March, 15, 15, 0, 0, 0, time.UTC)
	sample, err := testClient(ts.URL).HourlySample(context.Background(), 40.7, -74.0, hour)
	if err != nil {
		t.Fatalf("HourlySample: %v", err)
	}
	if sample != nil {
		t.Errorf("expected nil sample for a null observation, got %+v", sample)
	}
}

func TestHourlySampleServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	hour := time.Date(2025, time.March, 15, 14, 0, 0, 0, time.UTC)
	if _, err := testClient(ts.URL).HourlySample(context.Background(), 40.7, -74.0, hour); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}
