//go:build !windows

package player

import "net"

func dialEndpoint(endpoint string) (net.Conn, error) {
	return net.Dial("unix", endpoint)
}
