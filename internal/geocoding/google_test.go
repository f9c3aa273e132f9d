package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lckr_backend/platform/logger"
)

func newGoogleTestServer(t *testing.T, autocomplete, details string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in %s", r.URL.String())
		}
		switch r.URL.Path {
		case "/place/autocomplete/json":
			_, _ = w.Write([]byte(autocomplete))
		case "/place/details/json":
			_, _ = w.Write([]byte(details))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestGooglePredictions(t *testing.T) {
	srv := newGoogleTestServer(t, `{"status": "OK", "predictions": [
		{"description": "Van Pelt Library, Walnut Street", "place_id": "pl1"},
		{"id": "legacy", "description": "Van Pelt Auditorium", "place_id": "pl2"},
		{"description": "dropped without place id"}
	]}`, "")
	defer srv.Close()

	g := NewGoogle(GoogleOptions{APIKey: "test-key", BaseURL: srv.URL}, logger.Nop())

	result, err := g.Predictions(context.Background(), "Van Pelt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Search != "Van Pelt" || len(result.Predictions) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Predictions[0].ID != "pl1" || result.Predictions[1].ID != "legacy" {
		t.Fatalf("unexpected prediction ids %+v", result.Predictions)
	}
}

func TestGooglePredictionsZeroResults(t *testing.T) {
	srv := newGoogleTestServer(t, `{"status": "ZERO_RESULTS", "predictions": []}`, "")
	defer srv.Close()

	g := NewGoogle(GoogleOptions{APIKey: "test-key", BaseURL: srv.URL}, logger.Nop())

	result, err := g.Predictions(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Predictions) != 0 {
		t.Fatalf("expected no predictions, got %d", len(result.Predictions))
	}
}

func TestGooglePredictionsDenied(t *testing.T) {
	srv := newGoogleTestServer(t, `{"status": "REQUEST_DENIED", "error_message": "invalid key"}`, "")
	defer srv.Close()

	g := NewGoogle(GoogleOptions{APIKey: "test-key", BaseURL: srv.URL}, logger.Nop())

	if _, err := g.Predictions(context.Background(), "Van"); !errors.Is(err, ErrPredictionFetch) {
		t.Fatalf("expected ErrPredictionFetch, got %v", err)
	}
}

func TestGoogleDetails(t *testing.T) {
	srv := newGoogleTestServer(t, "", `{"status": "OK", "result": {
		"formatted_address": "3420 Walnut St, Philadelphia, PA 19104, USA",
		"geometry": {"location": {"lat": 39.952714, "lng": -75.1939328}}}}`)
	defer srv.Close()

	g := NewGoogle(GoogleOptions{APIKey: "test-key", BaseURL: srv.URL}, logger.Nop())

	place, err := g.Details(context.Background(), "pl1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.Address != "3420 Walnut St, Philadelphia, PA 19104, USA" || place.Origin.Lng != -75.1939328 {
		t.Fatalf("unexpected place %+v", place)
	}
}

func TestGoogleDetailsNotFound(t *testing.T) {
	srv := newGoogleTestServer(t, "", `{"status": "NOT_FOUND"}`)
	defer srv.Close()

	g := NewGoogle(GoogleOptions{APIKey: "test-key", BaseURL: srv.URL}, logger.Nop())

	_, err := g.Details(context.Background(), "gone")
	if !errors.Is(err, ErrPlaceNotFound) || !errors.Is(err, ErrDetailFetch) {
		t.Fatalf("expected not found detail error, got %v", err)
	}
}
