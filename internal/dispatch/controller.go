// Package dispatch forwards confirmed actions to the music control client
// with per-action rate limiting.
package dispatch

import (
	"context"
	"errors"
)

// Typed controller failures. Implementations wrap transport errors with
// fmt.Errorf("%w", ...) so callers can distinguish these cases.
var (
	// ErrAuthExpired means the session with the music service is no longer
	// valid and must be re-established.
	ErrAuthExpired = errors.New("authentication expired")
	// ErrNotPlaying means there is no active playback or device to act on.
	ErrNotPlaying = errors.New("nothing is playing")
	// ErrUpstreamRateLimited means the music service itself rejected the
	// call for rate reasons.
	ErrUpstreamRateLimited = errors.New("rate limited by music service")
)

// Controller executes playback-control operations against the remote music
// service. Authentication and session management are entirely the
// implementation's concern. All methods are synchronous and must honor ctx.
type Controller interface {
	LikeCurrentTrack(ctx context.Context) error
	SkipNext(ctx context.Context) error
	Stop(ctx context.Context) error
	// VolumeDelta shifts the volume by deltaPercent, clamped to [0,100].
	VolumeDelta(ctx context.Context, deltaPercent int) error
	Mute(ctx context.Context) error
	Unmute(ctx context.Context) error
}
