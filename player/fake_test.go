package player

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeMpv is a unix socket server speaking just enough of mpv's JSON IPC for
// transport and listener tests.
type fakeMpv struct {
	path     string
	listener net.Listener

	mu       sync.Mutex
	received []string
	conns    []net.Conn

	// reply builds the lines written back for one request line.
	reply func(line string) []string
}

func newFakeMpv(t *testing.T) *fakeMpv {
	dir, err := os.MkdirTemp("", "kp")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "mpv.sock")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}

	f := &fakeMpv{
		path:     path,
		listener: l,
		reply: func(string) []string {
			return []string{`{"data":null,"request_id":0,"error":"success"}`}
		},
	}
	go f.accept()

	return f
}

func (f *fakeMpv) accept() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}

		f.mu.Lock()
		f.conns = append(f.conns, conn)
		f.mu.Unlock()

		go f.serve(conn)
	}
}

func (f *fakeMpv) serve(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()

		f.mu.Lock()
		f.received = append(f.received, line)
		reply := f.reply
		f.mu.Unlock()

		for _, out := range reply(line) {
			if _, err := conn.Write([]byte(out + "\n")); err != nil {
				return
			}
		}
	}
}

// push writes a line to every open connection, like mpv broadcasting an event.
func (f *fakeMpv) push(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, conn := range f.conns {
		_, _ = conn.Write([]byte(line + "\n"))
	}
}

func (f *fakeMpv) setReply(reply func(line string) []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = reply
}

func (f *fakeMpv) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

// waitLines polls until at least n request lines arrived or the timeout passes.
func (f *fakeMpv) waitLines(n int, timeout time.Duration) []string {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if lines := f.lines(); len(lines) >= n {
			return lines
		}
		time.Sleep(5 * time.Millisecond)
	}
	return f.lines()
}

func (f *fakeMpv) close() {
	_ = f.listener.Close()

	f.mu.Lock()
	for _, conn := range f.conns {
		_ = conn.Close()
	}
	f.mu.Unlock()

	_ = os.RemoveAll(filepath.Dir(f.path))
}

func testConfig(endpoint string) Config {
	return Config{
		Endpoint:        endpoint,
		ConnectRetries:  3,
		RetryDelay:      10 * time.Millisecond,
		ResponseTimeout: time.Second,
		QuitGrace:       200 * time.Millisecond,
	}
}
