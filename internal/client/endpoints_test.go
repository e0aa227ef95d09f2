package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tempo/internal/shared"
)

// newEndpointClient wires a client to a handler with a fully granted,
// long-lived credential so endpoint tests exercise paths and decoding only.
func newEndpointClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	scope := "user-read-email user-read-private playlist-read-private user-library-read user-read-currently-playing user-read-playback-state"
	ep, tokenSrv := newAuthEndpoint("token", scope, 3600)
	t.Cleanup(tokenSrv.Close)

	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}
	}
	apiSrv := httptest.NewServer(handler)
	t.Cleanup(apiSrv.Close)

	return newTestClient(t, ep, tokenSrv.URL, apiSrv.URL), apiSrv
}

func TestProfileEndpoint(t *testing.T) {
	c, _ := newEndpointClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"id": "user1", "display_name": "Test User", "email": "t@example.com", "product": "premium", "followers": {"total": 7}}`))
	})

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != "user1" {
		t.Errorf("expected user id user1, got %s", user.ID)
	}
	if user.DisplayName != "Test User" {
		t.Errorf("expected display name, got %s", user.DisplayName)
	}
	if user.Followers.Total != 7 {
		t.Errorf("expected 7 followers, got %d", user.Followers.Total)
	}
}

func TestPlaylistEndpoints(t *testing.T) {
	t.Run("UserPlaylists", func(t *testing.T) {
		var gotLimit string
		c, _ := newEndpointClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotLimit = r.URL.Query().Get("limit")
			w.Write([]byte(`{"items": [{"id": "p1", "name": "Mix", "tracks": {"total": 12}}], "total": 1, "limit": 20, "offset": 0, "next": null}`))
		})

		page, err := c.UserPlaylists(context.Background(), 0, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if gotLimit != "20" {
			t.Errorf("zero limit should clamp to the default of 20, got %s", gotLimit)
		}
		if len(page.Items) != 1 || page.Items[0].ID != "p1" {
			t.Errorf("unexpected items: %+v", page.Items)
		}
		if page.Items[0].Tracks.Total != 12 {
			t.Errorf("expected 12 tracks, got %d", page.Items[0].Tracks.Total)
		}
		if page.HasNext() {
			t.Error("expected no next page")
		}
	})

	t.Run("Limit Clamped To Maximum", func(t *testing.T) {
		var gotLimit string
		c, _ := newEndpointClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotLimit = r.URL.Query().Get("limit")
			w.Write([]byte(`{"items": [], "total": 0}`))
		})

		if _, err := c.UserPlaylists(context.Background(), 500, 0); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotLimit != "50" {
			t.Errorf("oversized limit should clamp to 50, got %s", gotLimit)
		}
	})

	t.Run("AllPlaylists Walks Pages", func(t *testing.T) {
		c, srv := newEndpointClient(t, nil)
		srv.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			offset := r.URL.Query().Get("offset")
			if offset == "0" {
				next := srv.URL + "/me/playlists?offset=50"
				fmt.Fprintf(w, `{"items": [{"id": "p1"}], "total": 2, "limit": 50, "offset": 0, "next": %q}`, next)
				return
			}
			w.Write([]byte(`{"items": [{"id": "p2"}], "total": 2, "limit": 50, "offset": 50, "next": null}`))
		})

		playlists, err := c.AllPlaylists(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists across pages, got %d", len(playlists))
		}
		if playlists[0].ID != "p1" || playlists[1].ID != "p2" {
			t.Errorf("unexpected page order: %+v", playlists)
		}
	})

	t.Run("Playlist Not Found", func(t *testing.T) {
		c, _ := newEndpointClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": {"status": 404, "message": "Not found"}}`))
		})

		_, err := c.Playlist(context.Background(), "missing")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not-found error, got %v", err)
		}
	})

	t.Run("CreatePlaylist Validation", func(t *testing.T) {
		c, _ := newEndpointClient(t, nil)

		_, err := c.CreatePlaylist(context.Background(), "user1", CreatePlaylistOpts{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing-argument error for empty name, got %v", err)
		}
	})
}

func TestTrackEndpoints(t *testing.T) {
	t.Run("SeveralTracks Validation", func(t *testing.T) {
		c, _ := newEndpointClient(t, nil)

		if _, err := c.SeveralTracks(context.Background(), nil); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing-argument error, got %v", err)
		}

		ids := make([]string, 51)
		if _, err := c.SeveralTracks(context.Background(), ids); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid-argument error for 51 ids, got %v", err)
		}
	})

	t.Run("SavedTracks", func(t *testing.T) {
		c, _ := newEndpointClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/tracks" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(`{"items": [{"added_at": "2025-01-01T00:00:00Z", "track": {"id": "t1", "name": "Song", "duration_ms": 180000}}], "total": 1}`))
		})

		page, err := c.SavedTracks(context.Background(), 20, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(page.Items) != 1 || page.Items[0].Track.ID != "t1" {
			t.Errorf("unexpected items: %+v", page.Items)
		}
	})
}

func TestSearchEndpoints(t *testing.T) {
	t.Run("FindTrack", func(t *testing.T) {
		var gotQuery string
		c, _ := newEndpointClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			w.Write([]byte(`{"tracks": {"items": [{"id": "t1", "name": "Holland, 1945", "artists": [{"name": "Neutral Milk Hotel"}]}], "total": 1}}`))
		})

		track, err := c.FindTrack(context.Background(), "Holland, 1945", "Neutral Milk Hotel")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if track.ID != "t1" {
			t.Errorf("expected track t1, got %s", track.ID)
		}
		if gotQuery != "track:Holland, 1945 artist:Neutral Milk Hotel" {
			t.Errorf("unexpected search query %q", gotQuery)
		}
	})

	t.Run("FindTrack No Match", func(t *testing.T) {
		c, _ := newEndpointClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"tracks": {"items": [], "total": 0}}`))
		})

		_, err := c.FindTrack(context.Background(), "nothing", "")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not-found error, got %v", err)
		}
	})

	t.Run("Empty Query", func(t *testing.T) {
		c, _ := newEndpointClient(t, nil)

		_, err := c.Search(context.Background(), "", nil, 0, 0)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing-argument error, got %v", err)
		}
	})
}

func TestPlayerEndpoints(t *testing.T) {
	t.Run("Playing Nothing", func(t *testing.T) {
		c, _ := newEndpointClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		playing, err := c.Playing(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playing != nil {
			t.Errorf("expected nil for no active playback, got %+v", playing)
		}
	})

	t.Run("Devices", func(t *testing.T) {
		c, _ := newEndpointClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"devices": [{"id": "d1", "name": "Speaker", "type": "Speaker", "is_active": true, "volume_percent": 40}]}`))
		})

		devices, err := c.Devices(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(devices) != 1 || devices[0].Name != "Speaker" {
			t.Errorf("unexpected devices: %+v", devices)
		}
	})
}
