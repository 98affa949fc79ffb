package version

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/karaberus/karaplay/constant"
	"github.com/karaberus/karaplay/filesystem"
	"github.com/karaberus/karaplay/where"
	"github.com/metafates/gache"
)

var mpvPattern = regexp.MustCompile(`(?m)^mpv v?(\d+\.\d+\.\d+)`)

// mpvVersions caches the detected version per resolved binary path.
var mpvVersions = gache.New[map[string]string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "mpv-version.json"),
	Lifetime:   time.Hour * 24,
	FileSystem: &filesystem.GacheFs{},
})

var runVersion = func(binary string) ([]byte, error) {
	return exec.Command(binary, "--version").Output()
}

// ParseMpv extracts the release number from `mpv --version` output.
func ParseMpv(output string) (string, error) {
	match := mpvPattern.FindStringSubmatch(output)
	if match == nil {
		return "", errors.New("unrecognized mpv version output")
	}
	return match[1], nil
}

// Mpv returns the version of the mpv binary found at or on the path as binary.
func Mpv(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", err
	}

	cached, expired, err := mpvVersions.Get()
	if err == nil && !expired && cached != nil {
		if v, ok := cached[path]; ok {
			return v, nil
		}
	}
	if cached == nil || expired {
		cached = make(map[string]string)
	}

	out, err := runVersion(path)
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", path, err)
	}

	v, err := ParseMpv(string(out))
	if err != nil {
		return "", err
	}

	cached[path] = v
	_ = mpvVersions.Set(cached)
	return v, nil
}

// MpvSupported reports whether v is at least the oldest mpv release known to work.
func MpvSupported(v string) (bool, error) {
	cmp, err := Compare(v, constant.MinMpvVersion)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}
