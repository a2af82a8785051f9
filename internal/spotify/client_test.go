package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ayusman/mudra/internal/dispatch"
)

// fakeSpotify is an httptest-backed stand-in for the accounts and API hosts.
type fakeSpotify struct {
	accounts *httptest.Server
	api      *httptest.Server

	tokenRequests int
	requests      []string // "METHOD path?query"

	playing   bool
	trackID   string
	deviceID  string
	volume    int
	failWith  int // non-zero: every API call returns this status
	setVolume []int
	savedIDs  []string
	skips     int
	pauses    int
}

func newFakeSpotify() *fakeSpotify {
	f := &fakeSpotify{
		playing:  true,
		trackID:  "track-123",
		deviceID: "device-1",
		volume:   50,
	}

	f.accounts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.tokenRequests++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-1","expires_in":3600}`)
	}))

	f.api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, r.Method+" "+r.URL.String())

		if f.failWith != 0 {
			w.WriteHeader(f.failWith)
			return
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/me/player":
			if f.deviceID == "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"is_playing":%t,"device":{"id":%q,"volume_percent":%d},"item":{"id":%q}}`,
				f.playing, f.deviceID, f.volume, f.trackID)
		case r.Method == http.MethodPut && r.URL.Path == "/me/tracks":
			f.savedIDs = append(f.savedIDs, r.URL.Query().Get("ids"))
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/me/player/next":
			f.skips++
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPut && r.URL.Path == "/me/player/pause":
			f.pauses++
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPut && r.URL.Path == "/me/player/volume":
			v, _ := url.QueryUnescape(r.URL.Query().Get("volume_percent"))
			var n int
			fmt.Sscanf(v, "%d", &n)
			f.setVolume = append(f.setVolume, n)
			f.volume = n
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	return f
}

func (f *fakeSpotify) Close() {
	f.accounts.Close()
	f.api.Close()
}

func newTestClient(f *fakeSpotify) *Client {
	c := NewClient(Credentials{ClientID: "id", ClientSecret: "secret", RefreshToken: "refresh"})
	c.SetBaseURLs(f.api.URL, f.accounts.URL)
	return c
}

func TestClient_TokenCachedAcrossCalls(t *testing.T) {
	f := newFakeSpotify()
	defer f.Close()
	c := newTestClient(f)

	if err := c.SkipNext(context.Background()); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if err := c.SkipNext(context.Background()); err != nil {
		t.Fatalf("skip: %v", err)
	}

	if f.tokenRequests != 1 {
		t.Errorf("expected one token refresh, got %d", f.tokenRequests)
	}
	if f.skips != 2 {
		t.Errorf("expected 2 skips, got %d", f.skips)
	}
}

func TestClient_LikeSavesCurrentTrack(t *testing.T) {
	f := newFakeSpotify()
	defer f.Close()
	c := newTestClient(f)

	if err := c.LikeCurrentTrack(context.Background()); err != nil {
		t.Fatalf("like: %v", err)
	}
	if len(f.savedIDs) != 1 || f.savedIDs[0] != "track-123" {
		t.Errorf("expected track-123 saved, got %v", f.savedIDs)
	}
}

func TestClient_LikeWhenNothingPlaying(t *testing.T) {
	f := newFakeSpotify()
	defer f.Close()
	f.playing = false
	c := newTestClient(f)

	err := c.LikeCurrentTrack(context.Background())
	if !errors.Is(err, dispatch.ErrNotPlaying) {
		t.Errorf("expected ErrNotPlaying, got %v", err)
	}
}

func TestClient_NoActiveDevice(t *testing.T) {
	f := newFakeSpotify()
	defer f.Close()
	f.deviceID = ""
	c := newTestClient(f)

	err := c.Stop(context.Background())
	if !errors.Is(err, dispatch.ErrNotPlaying) {
		t.Errorf("expected ErrNotPlaying for missing device, got %v", err)
	}
}

func TestClient_VolumeDeltaClamps(t *testing.T) {
	f := newFakeSpotify()
	defer f.Close()
	c := newTestClient(f)

	f.volume = 95
	if err := c.VolumeDelta(context.Background(), 10); err != nil {
		t.Fatalf("volume up: %v", err)
	}
	f.volume = 5
	if err := c.VolumeDelta(context.Background(), -10); err != nil {
		t.Fatalf("volume down: %v", err)
	}

	if len(f.setVolume) != 2 || f.setVolume[0] != 100 || f.setVolume[1] != 0 {
		t.Errorf("expected volume set to [100 0], got %v", f.setVolume)
	}
}

func TestClient_MuteUnmuteRestoresVolume(t *testing.T) {
	f := newFakeSpotify()
	defer f.Close()
	f.volume = 64
	c := newTestClient(f)

	if err := c.Mute(context.Background()); err != nil {
		t.Fatalf("mute: %v", err)
	}
	if err := c.Unmute(context.Background()); err != nil {
		t.Fatalf("unmute: %v", err)
	}

	if len(f.setVolume) != 2 || f.setVolume[0] != 0 || f.setVolume[1] != 64 {
		t.Errorf("expected volume set to [0 64], got %v", f.setVolume)
	}
}

func TestClient_UnmuteWithoutPriorMute(t *testing.T) {
	f := newFakeSpotify()
	defer f.Close()
	c := newTestClient(f)

	if err := c.Unmute(context.Background()); err != nil {
		t.Fatalf("unmute: %v", err)
	}
	if len(f.setVolume) != 1 || f.setVolume[0] != 100 {
		t.Errorf("expected fallback volume 100, got %v", f.setVolume)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, dispatch.ErrAuthExpired},
		{http.StatusNotFound, dispatch.ErrNotPlaying},
		{http.StatusTooManyRequests, dispatch.ErrUpstreamRateLimited},
	}

	for _, tc := range cases {
		f := newFakeSpotify()
		f.failWith = tc.status
		c := newTestClient(f)

		err := c.SkipNext(context.Background())
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		f.Close()
	}
}

func TestClient_401ClearsCachedToken(t *testing.T) {
	f := newFakeSpotify()
	defer f.Close()
	c := newTestClient(f)

	if err := c.SkipNext(context.Background()); err != nil {
		t.Fatalf("skip: %v", err)
	}

	f.failWith = http.StatusUnauthorized
	if err := c.SkipNext(context.Background()); !errors.Is(err, dispatch.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}

	// Next call should refresh the token again.
	f.failWith = 0
	if err := c.SkipNext(context.Background()); err != nil {
		t.Fatalf("skip after 401: %v", err)
	}
	if f.tokenRequests != 2 {
		t.Errorf("expected a second token refresh after 401, got %d", f.tokenRequests)
	}
}
