// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"runtime"

	"github.com/karaberus/karaplay/constant"
	"github.com/karaberus/karaplay/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "KARAPLAY_CONFIG_PATH"

// socketName is the base name of the default mpv IPC endpoint.
const socketName = constant.App + "-mpv"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// Direct override: The path resolution can be explicitly specified via the KARAPLAY_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the path of the played bundles history file.
func History() string {
	return filepath.Join(Cache(), "history.json")
}

// Lock resolves the path of the lock file guarding a single session per mpv endpoint.
func Lock(endpoint string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(endpoint))
	return filepath.Join(Temp(), fmt.Sprintf("%s-%08x.lock", socketName, h.Sum32()))
}

// Socket resolves the default mpv IPC endpoint: a namespaced pipe on Windows,
// a socket in the user runtime directory on Linux and a temp-dir socket elsewhere.
func Socket() string {
	switch runtime.GOOS {
	case constant.Windows:
		return `\\.\pipe\` + socketName
	case constant.Linux:
		if dir, ok := os.LookupEnv("XDG_RUNTIME_DIR"); ok && dir != "" {
			return filepath.Join(dir, socketName+".sock")
		}
	}
	return filepath.Join(os.TempDir(), socketName+".sock")
}

// Temp resolves a volatile directory for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
