// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Player Process - these keys control how mpv is located and launched.
const (
	PlayerBinary    = "player.binary"
	PlayerSocket    = "player.socket"
	PlayerIdle      = "player.idle"
	PlayerArgs      = "player.args"
	PlayerQuitGrace = "player.quit_grace_ms"
)

// IPC Channel - these keys tune the JSON IPC transport to mpv.
const (
	IPCConnectRetries  = "ipc.connect_retries"
	IPCRetryDelay      = "ipc.retry_delay_ms"
	IPCResponseTimeout = "ipc.response_timeout_ms"
)

// History Tracking - these keys configure the record of played bundles.
const (
	HistorySave  = "history.save"
	HistoryLimit = "history.limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern terminal output.
const (
	CliColored = "cli.colored"
)
