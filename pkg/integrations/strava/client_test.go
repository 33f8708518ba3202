package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(baseURL, tokenURL string) *Client {
	c := NewClient(Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-token",
	})
	c.baseURL = baseURL
	c.tokenURL = tokenURL
	return c
}

func activityPage(ids ...int64) []SummaryActivity {
	out := make([]SummaryActivity, len(ids))
	for i, id := range ids {
		out[i] = SummaryActivity{ID: id, Name: fmt.Sprintf("Activity %d", id), Type: "Run"}
	}
	return out
}

func TestAuthenticate(t *testing.T) {
	var gotGrantType, gotRefreshToken string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotGrantType = r.FormValue("grant_type")
		gotRefreshToken = r.FormValue("refresh_token")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "shiny-new-token",
			"expires_at":   9999999999,
		})
	}))
	defer ts.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer shiny-new-token" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode([]SummaryActivity{})
	}))
	defer api.Close()

	c := testClient(api.URL, ts.URL)
	if err := c.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if gotGrantType != "refresh_token" {
		t.Errorf("grant_type = %q", gotGrantType)
	}
	if gotRefreshToken != "refresh-token" {
		t.Errorf("refresh_token = %q", gotRefreshToken)
	}

	// The installed token must ride along on data requests.
	if _, err := c.ListActivities(context.Background(), 1); err != nil {
		t.Fatalf("ListActivities: %v", err)
	}
}

func TestAuthenticateRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad Request"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	c := testClient("http://unused", ts.URL)
	if err := c.Authenticate(context.Background()); err == nil {
		t.Fatal("expected error for rejected token exchange")
	}
}

func TestFetchAllActivitiesStopsOnEmptyPage(t *testing.T) {
	var pagesRequested []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesRequested = append(pagesRequested, page)
		if got := r.URL.Query().Get("per_page"); got != "200" {
			t.Errorf("per_page = %q, want 200", got)
		}
		switch page {
		case "1":
			json.NewEncoder(w).Encode(activityPage(1, 2, 3))
		case "2":
			json.NewEncoder(w).Encode(activityPage(4, 5))
		default:
			json.NewEncoder(w).Encode([]SummaryActivity{})
		}
	}))
	defer ts.Close()

	c := testClient(ts.URL, "http://unused")
	activities, truncated, err := c.FetchAllActivities(context.Background())
	if err != nil {
		t.Fatalf("FetchAllActivities: %v", err)
	}
	if truncated {
		t.Error("truncated = true, want false")
	}
	if len(activities) != 5 {
		t.Fatalf("got %d activities, want 5", len(activities))
	}
	for i, want := range []int64{1, 2, 3, 4, 5} {
		if activities[i].ID != want {
			t.Errorf("activities[%d].ID = %d, want %d (order must follow pages)", i, activities[i].ID, want)
		}
	}
	if len(pagesRequested) != 3 {
		t.Errorf("requested pages %v, want exactly 3 requests", pagesRequested)
	}
}

func TestFetchAllActivitiesPageCap(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(activityPage(int64(requests)))
	}))
	defer ts.Close()

	c := testClient(ts.URL, "http://unused")
	activities, truncated, err := c.FetchAllActivities(context.Background())
	if err != nil {
		t.Fatalf("FetchAllActivities: %v", err)
	}
	if !truncated {
		t.Error("truncated = false, want true when the cap is hit")
	}
	if requests != MaxPages {
		t.Errorf("made %d requests, want %d", requests, MaxPages)
	}
	if len(activities) != MaxPages {
		t.Errorf("got %d activities, want %d", len(activities), MaxPages)
	}
}

func TestFetchAllActivitiesFirstPageErrorIsFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Rate Limit Exceeded"}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := testClient(ts.URL, "http://unused")
	activities, _, err := c.FetchAllActivities(context.Background())
	if err == nil {
		t.Fatal("expected error when the first page fails")
	}
	if activities != nil {
		t.Errorf("expected no activities, got %d", len(activities))
	}
}

func TestFetchAllActivitiesLaterPageErrorKeepsPartial(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode(activityPage(1, 2))
			return
		}
		http.Error(w, `{"message":"Internal Server Error"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := testClient(ts.URL, "http://unused")
	activities, truncated, err := c.FetchAllActivities(context.Background())
	if err != nil {
		t.Fatalf("expected partial result, got error: %v", err)
	}
	if !truncated {
		t.Error("truncated = false, want true for a partial fetch")
	}
	if len(activities) != 2 {
		t.Errorf("got %d activities, want the 2 from page 1", len(activities))
	}
}

func TestGetGear(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gear/g12345" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Gear{
			ID:        "g12345",
			Name:      "Pegasus 40",
			BrandName: "Nike",
			Retired:   false,
			Distance:  804670,
		})
	}))
	defer ts.Close()

	c := testClient(ts.URL, "http://unused")
	gear, err := c.GetGear(context.Background(), "g12345")
	if err != nil {
		t.Fatalf("GetGear: %v", err)
	}
	if gear.BrandName != "Nike" || gear.Distance != 804670 {
		t.Errorf("unexpected gear: %+v", gear)
	}
}

func TestGetGearNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Record Not Found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	c := testClient(ts.URL, "http://unused")
	if _, err := c.GetGear(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for missing gear")
	}
}
