// Package strava is an API client for the Strava v3 REST API, covering the
// token exchange, the paginated athlete activities listing and gear detail
// lookups.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultBaseURL  = "https://www.strava.com/api/v3"
	defaultTokenURL = "https://www.strava.com/oauth/token"

	// PerPage is the page size for activity listings; 200 is the API maximum.
	PerPage = 200
	// MaxPages is a hard circuit breaker against unbounded API calls. A
	// fetch that hits it is truncated, not failed.
	MaxPages = 20
)

// Credentials are the long-lived secrets exchanged for a bearer token.
// They are supplied from the environment, never hard-coded.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Client is a Strava API client. Authenticate must be called before any
// data method; it installs an OAuth2 HTTP client carrying the bearer token.
type Client struct {
	creds    Credentials
	baseURL  string
	tokenURL string
	client   *http.Client
}

func NewClient(creds Credentials) *Client {
	return &Client{
		creds:    creds,
		baseURL:  defaultBaseURL,
		tokenURL: defaultTokenURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SummaryActivity is one activity as returned by the listing endpoint,
// still in raw metric units (meters, m/s, seconds).
type SummaryActivity struct {
	ID                 int64     `json:"id"`
	UploadID           int64     `json:"upload_id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	Distance           float64   `json:"distance"`
	MovingTime         int       `json:"moving_time"`
	ElapsedTime        int       `json:"elapsed_time"`
	TotalElevationGain float64   `json:"total_elevation_gain"`
	ElevHigh           float64   `json:"elev_high"`
	ElevLow            float64   `json:"elev_low"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"` // wall clock, zone is not meaningful
	AverageSpeed       float64   `json:"average_speed"`
	MaxSpeed           float64   `json:"max_speed"`
	AverageHeartrate   *float64  `json:"average_heartrate"`
	MaxHeartrate       *float64  `json:"max_heartrate"`
	SufferScore        *float64  `json:"suffer_score"`
	GearID             string    `json:"gear_id"`
	StartLatLng        []float64 `json:"start_latlng"`
	EndLatLng          []float64 `json:"end_latlng"`
}

// Gear is one piece of equipment from the gear detail endpoint.
type Gear struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BrandName string  `json:"brand_name"`
	ModelName string  `json:"model_name"`
	Retired   bool    `json:"retired"`
	Distance  float64 `json:"distance"` // lifetime meters
}

// Authenticate exchanges the refresh credential for a short-lived bearer
// token and rebuilds the HTTP client around it. A rejected exchange is
// fatal for the live-fetch path; callers fall back to persisted data.
func (c *Client) Authenticate(ctx context.Context) error {
	data := url.Values{}
	data.Set("client_id", c.creds.ClientID)
	data.Set("client_secret", c.creds.ClientSecret)
	data.Set("refresh_token", c.creds.RefreshToken)
	data.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, "POST", c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("token exchange returned no access token")
	}

	tok := &oauth2.Token{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		Expiry:      time.Unix(result.ExpiresAt, 0),
	}
	timeout := c.client.Timeout
	c.client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	c.client.Timeout = timeout
	return nil
}

// ListActivities fetches one page of the athlete's activities. An empty
// slice signals end-of-data.
func (c *Client) ListActivities(ctx context.Context, page int) ([]SummaryActivity, error) {
	u := fmt.Sprintf("%s/athlete/activities?per_page=%d&page=%d", c.baseURL, PerPage, page)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var activities []SummaryActivity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return activities, nil
}

// GetGear fetches one gear record by identifier.
func (c *Client) GetGear(ctx context.Context, gearID string) (*Gear, error) {
	u := fmt.Sprintf("%s/gear/%s", c.baseURL, gearID)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var gear Gear
	if err := json.NewDecoder(resp.Body).Decode(&gear); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &gear, nil
}

// FetchAllActivities pages through the listing from page 1 until an empty
// page or MaxPages, concatenating in upstream order. truncated is true when
// the cap was hit. A failed first page returns an error so the caller can
// fall back to the persisted snapshot; a failure on a later page keeps what
// was already fetched.
func (c *Client) FetchAllActivities(ctx context.Context) (activities []SummaryActivity, truncated bool, err error) {
	for page := 1; ; page++ {
		batch, err := c.ListActivities(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, false, err
			}
			return activities, true, nil
		}
		if len(batch) == 0 {
			return activities, false, nil
		}
		activities = append(activities, batch...)
		if page >= MaxPages {
			return activities, true, nil
		}
	}
}
