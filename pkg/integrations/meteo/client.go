// Package meteo queries the Open-Meteo historical weather archive for a
// single hourly sample at a point.
package meteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://archive-api.open-meteo.com/v1/archive"

// Client is an Open-Meteo archive API client.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Sample is one hourly observation in imperial units.
type Sample struct {
	TempF    float64
	Humidity float64
}

type archiveResponse struct {
	Hourly struct {
		Time        []string   `json:"time"`
		Temperature []*float64 `json:"temperature_2m"`
		Humidity    []*float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

// HourlySample returns the observation for the given point at the given
// hour (local wall-clock, already truncated to the top of the hour).
// Returns (nil, nil) when the archive has no value for that hour; callers
// treat missing data and transport errors identically.
func (c *Client) HourlySample(ctx context.Context, lat, lng float64, hour time.Time) (*Sample, error) {
	dateStr := hour.Format("2006-01-02")
	url := fmt.Sprintf(
		"%s?latitude=%.6f&longitude=%.6f&start_date=%s&end_date=%s&hourly=temperature_2m,relative_humidity_2m&temperature_unit=fahrenheit&timezone=auto",
		c.baseURL, lat, lng, dateStr, dateStr,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather API returned status %d: %s", resp.StatusCode, string(body))
	}

	var archive archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&archive); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	want := hour.Format("2006-01-02T15:04")
	for i, ts := range archive.Hourly.Time {
		if ts != want {
			continue
		}
		if i >= len(archive.Hourly.Temperature) || i >= len(archive.Hourly.Humidity) {
			return nil, nil
		}
		temp := archive.Hourly.Temperature[i]
		hum := archive.Hourly.Humidity[i]
		if temp == nil || hum == nil {
			return nil, nil
		}
		return &Sample{TempF: *temp, Humidity: *hum}, nil
	}
	return nil, nil
}
