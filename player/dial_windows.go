//go:build windows

package player

import (
	"net"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"
)

const pipePrefix = `\\.\pipe\`

func dialEndpoint(endpoint string) (net.Conn, error) {
	if !strings.HasPrefix(endpoint, pipePrefix) {
		endpoint = pipePrefix + endpoint
	}

	timeout := time.Second
	return winio.DialPipe(endpoint, &timeout)
}
