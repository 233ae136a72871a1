package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/shared"
)

func TestCloudLibrary(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			c := NewCloudLibrary(context.Background(), CloudOpts{})
			if c.baseURL != defaultCloudBaseURL {
				t.Errorf("expected default baseURL, got %s", c.baseURL)
			}
			if c.pageSize != defaultPageSize {
				t.Errorf("expected page size %d, got %d", defaultPageSize, c.pageSize)
			}
			if c.Name() != "cloud" {
				t.Errorf("unexpected name %s", c.Name())
			}
		})

		t.Run("Does not modify the supplied client", func(t *testing.T) {
			base := &http.Client{}
			NewCloudLibrary(context.Background(), CloudOpts{HTTPClient: base, Timeout: 5})
			if base.Timeout != 0 {
				t.Error("expected base client to be left untouched")
			}
		})
	})

	t.Run("ListTracks", func(t *testing.T) {
		t.Run("Follows continuation tokens", func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != songsEndpoint {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("limit"); got != "2" {
					t.Errorf("expected limit 2, got %s", got)
				}
				calls.Add(1)

				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Query().Get("continuation") {
				case "":
					json.NewEncoder(w).Encode(songsPage{
						Tracks: []*models.RemoteTrack{
							{ID: "1", Title: " Song ", Album: "A", Artist: "B", TrackNumber: models.Int(3), Rating: 2},
							{ID: "2", Title: "Cafe\u0301", Album: "A", Artist: "B"},
						},
						Continuation: "next",
					})
				case "next":
					json.NewEncoder(w).Encode(songsPage{Tracks: []*models.RemoteTrack{{ID: "3", Title: "Last", Album: "A", Artist: "B"}}})
				default:
					t.Errorf("unexpected continuation %s", r.URL.Query().Get("continuation"))
				}
			}))
			defer server.Close()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: server.URL, PageSize: 2})
			tracks, err := c.ListTracks(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if calls.Load() != 2 {
				t.Errorf("expected 2 requests, got %d", calls.Load())
			}
			if len(tracks) != 3 {
				t.Fatalf("expected 3 tracks, got %d", len(tracks))
			}
			if tracks[0].Title != "Song" {
				t.Errorf("expected trimmed title, got %q", tracks[0].Title)
			}
			if tracks[1].Title != "Caf\u00e9" {
				t.Errorf("expected composed title, got %q", tracks[1].Title)
			}
			if tracks[0].TrackNumber == nil || *tracks[0].TrackNumber != 3 {
				t.Error("expected trackNumber to decode")
			}
		})

		t.Run("Sends bearer token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer secret" {
					t.Errorf("expected bearer header, got %q", got)
				}
				if r.Header.Get("X-Auth-File") != "" {
					t.Error("expected no auth file header")
				}
				json.NewEncoder(w).Encode(songsPage{})
			}))
			defer server.Close()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: server.URL, Token: "secret"})
			if _, err := c.ListTracks(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Sends auth file", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("X-Auth-File"); got != "browser.json" {
					t.Errorf("expected auth file header, got %q", got)
				}
				json.NewEncoder(w).Encode(songsPage{})
			}))
			defer server.Close()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: server.URL, AuthFile: "browser.json"})
			if _, err := c.ListTracks(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Error status with detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "bad credentials"})
			}))
			defer server.Close()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: server.URL})
			_, err := c.ListTracks(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated for 401, got %v", err)
			}
			if !strings.Contains(err.Error(), "bad credentials") {
				t.Errorf("expected detail in error, got %v", err)
			}
		})

		t.Run("Unreachable proxy", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			url := server.URL
			server.Close()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: url})
			_, err := c.ListTracks(context.Background())
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Fatalf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("Cancelled context", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: "http://127.0.0.1:1", RequestsPerSecond: 1})
			if _, err := c.ListTracks(ctx); err == nil {
				t.Fatal("expected error for cancelled context")
			}
		})
	})

	t.Run("UpdateTracks", func(t *testing.T) {
		t.Run("Posts ids and ratings", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != ratingsEndpoint {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var body ratingsRequest
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if len(body.Tracks) != 2 || body.Tracks[0] != (ratingUpdate{ID: "1", Rating: 4}) {
					t.Errorf("unexpected body %+v", body)
				}
				json.NewEncoder(w).Encode(ratingsResponse{Updated: len(body.Tracks)})
			}))
			defer server.Close()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: server.URL})
			err := c.UpdateTracks(context.Background(), []*models.RemoteTrack{{ID: "1", Rating: 4}, {ID: "2", Rating: 5}})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Empty batch makes no request", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("unexpected request")
			}))
			defer server.Close()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: server.URL})
			if err := c.UpdateTracks(context.Background(), nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Partial update is an error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ratingsResponse{Updated: 1})
			}))
			defer server.Close()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: server.URL})
			err := c.UpdateTracks(context.Background(), []*models.RemoteTrack{{ID: "1"}, {ID: "2"}})
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Server error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			c := NewCloudLibrary(context.Background(), CloudOpts{BaseURL: server.URL})
			err := c.UpdateTracks(context.Background(), []*models.RemoteTrack{{ID: "1"}})
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
		})
	})
}
