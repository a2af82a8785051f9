// Package spotify implements the music control boundary against the
// Spotify Web API.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/dispatch"
)

// API endpoints, overridable in tests.
const (
	DefaultAPIBaseURL  = "https://api.spotify.com/v1"
	DefaultAccountsURL = "https://accounts.spotify.com/api/token"
)

// Credentials holds the OAuth client credentials and a long-lived refresh
// token obtained out of band (the authorization-code flow is a one-time
// setup step, not part of this program).
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Client talks to the Spotify Web API and implements dispatch.Controller.
// It is driven by the single-threaded frame pipeline and performs no
// internal locking.
type Client struct {
	creds       Credentials
	baseURL     string
	accountsURL string
	http        *http.Client

	accessToken string
	tokenExpiry time.Time

	deviceID      string
	preMuteVolume int

	now func() time.Time
}

// NewClient creates a Client with the given credentials.
func NewClient(creds Credentials) *Client {
	return &Client{
		creds:         creds,
		baseURL:       DefaultAPIBaseURL,
		accountsURL:   DefaultAccountsURL,
		http:          &http.Client{Timeout: 10 * time.Second},
		preMuteVolume: -1,
		now:           time.Now,
	}
}

// SetBaseURLs overrides the API and accounts endpoints. Used in tests.
func (c *Client) SetBaseURLs(api, accounts string) {
	c.baseURL = api
	c.accountsURL = accounts
}

// token returns a valid access token, refreshing it if the cached one has
// expired.
func (c *Client) token(ctx context.Context) (string, error) {
	if c.accessToken != "" && c.now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.creds.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accountsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.creds.ClientID + ":" + c.creds.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh token: status %d: %w", res.StatusCode, dispatch.ErrAuthExpired)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("refresh token: decode: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("refresh token: empty access token: %w", dispatch.ErrAuthExpired)
	}

	c.accessToken = body.AccessToken
	// Refresh one minute early to avoid racing the expiry.
	c.tokenExpiry = c.now().Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	return c.accessToken, nil
}

// do performs an authenticated API call and maps HTTP failures to the
// typed dispatch errors. A 401 clears the cached token so the next call
// refreshes it.
func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		c.accessToken = ""
		return fmt.Errorf("%s %s: %w", method, path, dispatch.ErrAuthExpired)
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, dispatch.ErrNotPlaying)
	case res.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s %s: %w", method, path, dispatch.ErrUpstreamRateLimited)
	case res.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, res.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out != nil && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode: %w", method, path, err)
		}
	}
	return nil
}

type playbackState struct {
	IsPlaying bool `json:"is_playing"`
	Device    struct {
		ID            string `json:"id"`
		VolumePercent int    `json:"volume_percent"`
	} `json:"device"`
	Item struct {
		ID string `json:"id"`
	} `json:"item"`
}

// playback fetches the current playback state. A 204 from the API (no
// active session) is reported as ErrNotPlaying.
func (c *Client) playback(ctx context.Context) (*playbackState, error) {
	var state playbackState
	if err := c.do(ctx, http.MethodGet, "/me/player", &state); err != nil {
		return nil, err
	}
	if state.Device.ID == "" {
		return nil, fmt.Errorf("no active device: %w", dispatch.ErrNotPlaying)
	}
	c.deviceID = state.Device.ID
	return &state, nil
}

// LikeCurrentTrack saves the currently playing track to the user's library.
func (c *Client) LikeCurrentTrack(ctx context.Context) error {
	state, err := c.playback(ctx)
	if err != nil {
		return err
	}
	if !state.IsPlaying || state.Item.ID == "" {
		return fmt.Errorf("like: %w", dispatch.ErrNotPlaying)
	}
	return c.do(ctx, http.MethodPut, "/me/tracks?ids="+url.QueryEscape(state.Item.ID), nil)
}

// SkipNext advances playback to the next track in the queue.
func (c *Client) SkipNext(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/me/player/next", nil)
}

// Stop pauses playback on the active device.
func (c *Client) Stop(ctx context.Context) error {
	state, err := c.playback(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/me/player/pause?device_id="+url.QueryEscape(state.Device.ID), nil)
}

// VolumeDelta shifts the active device's volume by deltaPercent, clamped
// to [0,100].
func (c *Client) VolumeDelta(ctx context.Context, deltaPercent int) error {
	state, err := c.playback(ctx)
	if err != nil {
		return err
	}
	return c.setVolume(ctx, clampVolume(state.Device.VolumePercent+deltaPercent))
}

// Mute remembers the current volume and sets it to 0.
func (c *Client) Mute(ctx context.Context) error {
	state, err := c.playback(ctx)
	if err != nil {
		return err
	}
	if state.Device.VolumePercent > 0 {
		c.preMuteVolume = state.Device.VolumePercent
	}
	return c.setVolume(ctx, 0)
}

// Unmute restores the volume remembered by Mute, falling back to 100 when
// there is nothing to restore.
func (c *Client) Unmute(ctx context.Context) error {
	restore := c.preMuteVolume
	if restore <= 0 {
		restore = 100
	}
	return c.setVolume(ctx, restore)
}

func (c *Client) setVolume(ctx context.Context, percent int) error {
	return c.do(ctx, http.MethodPut, "/me/player/volume?volume_percent="+strconv.Itoa(percent), nil)
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
