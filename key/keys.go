// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Overlay behaviour - timings and steps of the playback controls overlay.
const (
	OverlayAutoHideDelay = "overlay.autohide_delay"
	OverlaySeekGrace     = "overlay.seek_grace"
	OverlaySeekSettle    = "overlay.seek_settle"
	OverlaySkipSeconds   = "overlay.skip_seconds"
	OverlaySyntheticTick = "overlay.synthetic_tick"
)

// Media Playback - these keys select and tune the playback engine.
const (
	Player             = "player.default"
	PlayerTickInterval = "player.tick_interval"
)

// History Tracking - resume positions per source.
const (
	HistoryResume     = "history.resume"
	HistorySaveOnExit = "history.save_on_exit"
	HistoryMaxAge     = "history.max_age"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI)
const (
	TUIShowHelp = "tui.show_help"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment
const (
	CliColored = "cli.colored"
)
