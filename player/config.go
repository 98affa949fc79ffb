package player

import (
	"time"

	"github.com/karaberus/karaplay/key"
	"github.com/karaberus/karaplay/where"
	"github.com/spf13/viper"
)

// Config carries everything the session needs to launch and talk to mpv.
type Config struct {
	Binary    string
	Endpoint  string
	Idle      string
	ExtraArgs []string
	QuitGrace time.Duration

	ConnectRetries  int
	RetryDelay      time.Duration
	ResponseTimeout time.Duration
}

// ConfigFromViper reads the player and ipc sections of the global configuration.
func ConfigFromViper() Config {
	endpoint := viper.GetString(key.PlayerSocket)
	if endpoint == "" {
		endpoint = where.Socket()
	}

	return Config{
		Binary:          viper.GetString(key.PlayerBinary),
		Endpoint:        endpoint,
		Idle:            viper.GetString(key.PlayerIdle),
		ExtraArgs:       viper.GetStringSlice(key.PlayerArgs),
		QuitGrace:       time.Duration(viper.GetInt(key.PlayerQuitGrace)) * time.Millisecond,
		ConnectRetries:  viper.GetInt(key.IPCConnectRetries),
		RetryDelay:      time.Duration(viper.GetInt(key.IPCRetryDelay)) * time.Millisecond,
		ResponseTimeout: time.Duration(viper.GetInt(key.IPCResponseTimeout)) * time.Millisecond,
	}
}
