package player

import "errors"

var (
	// ErrEndpointUnavailable is returned when the IPC endpoint could not be
	// reached within the configured number of connection attempts.
	ErrEndpointUnavailable = errors.New("mpv endpoint unavailable")

	// ErrProtocolDecode marks a line from mpv (process output or IPC) that could not be decoded.
	ErrProtocolDecode = errors.New("protocol decode error")

	// ErrSpawn is returned when the mpv binary is missing or cannot be launched.
	ErrSpawn = errors.New("mpv spawn failure")

	// ErrUnexpectedEvent marks an IPC message that has no meaning for the playlist.
	ErrUnexpectedEvent = errors.New("unexpected event shape")

	// ErrCommandFailed is returned when mpv answers a command with an error status.
	ErrCommandFailed = errors.New("mpv command failed")

	// ErrEmptyBundle is returned for bundles that carry neither a video nor an instrumental.
	ErrEmptyBundle = errors.New("bundle has neither video nor instrumental")
)
