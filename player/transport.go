package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/karaberus/karaplay/log"
)

const (
	defaultConnectRetries = 5
	defaultRetryDelay     = 200 * time.Millisecond
	maxReplyLines         = 64
)

// ipcReply is the JSON structure received from mpv for a command.
type ipcReply struct {
	Data  any    `json:"data"`
	Error string `json:"error"`
	Event string `json:"event"`
}

// Transport exchanges one request line for one reply line over a fresh
// connection to mpv's IPC endpoint.
type Transport struct {
	endpoint string
	retries  int
	delay    time.Duration
	timeout  time.Duration
	dial     func(endpoint string) (net.Conn, error)
}

// NewTransport returns a transport for the endpoint using the platform dialer.
func NewTransport(endpoint string, cfg Config) *Transport {
	t := &Transport{
		endpoint: endpoint,
		retries:  cfg.ConnectRetries,
		delay:    cfg.RetryDelay,
		timeout:  cfg.ResponseTimeout,
		dial:     dialEndpoint,
	}

	if t.retries <= 0 {
		t.retries = defaultConnectRetries
	}
	if t.delay <= 0 {
		t.delay = defaultRetryDelay
	}

	return t
}

// Endpoint returns the address this transport dials.
func (t *Transport) Endpoint() string {
	return t.endpoint
}

// Connect dials the endpoint, retrying with a fixed delay while mpv has not
// created it yet.
func (t *Transport) Connect() (net.Conn, error) {
	var lastErr error

	for attempt := 0; attempt < t.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(t.delay)
		}

		conn, err := t.dial(t.endpoint)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrEndpointUnavailable, t.endpoint, t.retries, lastErr)
}

// Send writes one request frame and returns the raw reply line.
// Event lines broadcast by mpv on the same connection are skipped.
func (t *Transport) Send(payload []byte) ([]byte, error) {
	conn, err := t.Connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if len(payload) == 0 || payload[len(payload)-1] != '\n' {
		payload = append(payload, '\n')
	}

	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if t.timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}

	reader := bufio.NewReader(conn)
	for i := 0; i < maxReplyLines; i++ {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		var probe struct {
			Event string `json:"event"`
		}
		if json.Unmarshal(line, &probe) == nil && probe.Event != "" {
			continue
		}

		return line, nil
	}

	return nil, fmt.Errorf("%w: no reply within %d lines", ErrProtocolDecode, maxReplyLines)
}

// Client sends encoded commands through a Transport and checks mpv's status.
type Client struct {
	transport *Transport
}

// NewClient wraps a transport.
func NewClient(transport *Transport) *Client {
	return &Client{transport: transport}
}

// Run sends a command and waits for its reply.
func (c *Client) Run(cmd Command) error {
	_, err := c.Call(cmd)
	return err
}

// Call sends a command and returns the reply's data field.
func (c *Client) Call(cmd Command) (any, error) {
	payload, err := Encode(cmd)
	if err != nil {
		return nil, err
	}

	line, err := c.transport.Send(payload)
	if err != nil {
		return nil, err
	}

	var reply ipcReply
	if err := json.Unmarshal(line, &reply); err != nil {
		log.Warnf("undecodable reply from mpv: %q", line)
		return nil, fmt.Errorf("%w: %v", ErrProtocolDecode, err)
	}

	if reply.Error != "" && reply.Error != "success" {
		return nil, fmt.Errorf("%w: %s", ErrCommandFailed, reply.Error)
	}

	return reply.Data, nil
}
