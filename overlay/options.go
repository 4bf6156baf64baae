package overlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/cheta-player/cheta/config"
	"github.com/cheta-player/cheta/key"
	"github.com/spf13/viper"
)

// Settle decides when Seeking is cleared after a drag seek.
type Settle int

const (
	// SettleGrace clears Seeking after Options.SeekGrace.
	SettleGrace Settle = iota
	// SettleTick clears Seeking on the first engine tick after the seek.
	SettleTick
)

func (s Settle) String() string {
	if s == SettleTick {
		return "tick"
	}
	return "grace"
}

// ParseSettle parses the overlay.seek_settle setting.
func ParseSettle(s string) (Settle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grace", "":
		return SettleGrace, nil
	case "tick":
		return SettleTick, nil
	default:
		return SettleGrace, fmt.Errorf("unknown seek settle policy %q, expected grace or tick", s)
	}
}

// Options tune the controller timings.
type Options struct {
	AutoHideDelay time.Duration
	SeekGrace     time.Duration
	Settle        Settle
	TickInterval  time.Duration

	// SyntheticTick makes SeekRelative feed its target back as a tick, so the
	// scrubber moves before the engine reports.
	SyntheticTick bool
}

// DefaultOptions mirror the built-in configuration defaults.
func DefaultOptions() Options {
	return Options{
		AutoHideDelay: 3500 * time.Millisecond,
		SeekGrace:     200 * time.Millisecond,
		Settle:        SettleGrace,
		TickInterval:  time.Second,
		SyntheticTick: true,
	}
}

// OptionsFromConfig reads the overlay.* and player.tick_interval settings.
// Non-positive durations fall back to the defaults.
func OptionsFromConfig() (Options, error) {
	opts := DefaultOptions()

	settle, err := ParseSettle(viper.GetString(key.OverlaySeekSettle))
	if err != nil {
		return opts, err
	}
	opts.Settle = settle
	opts.SyntheticTick = viper.GetBool(key.OverlaySyntheticTick)

	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{key.OverlayAutoHideDelay, &opts.AutoHideDelay},
		{key.OverlaySeekGrace, &opts.SeekGrace},
		{key.PlayerTickInterval, &opts.TickInterval},
	} {
		if v := config.Millis(d.key); v > 0 {
			*d.dst = v
		}
	}

	return opts, nil
}
