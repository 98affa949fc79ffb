package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/karaberus/karaplay/log"
)

// Stream identifies which mpv output a line came from.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// Sink receives what the orchestration reports to its host.
type Sink interface {
	// Line is called for every decoded line of mpv output.
	Line(stream Stream, line string)
	// Stopped is called once per session when mpv has terminated.
	Stopped()
}

// Launcher starts mpv processes.
type Launcher interface {
	Launch(token string) (*Process, error)
}

// Process is a running mpv instance.
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// Done returns a channel that is closed when the process has exited and its output has been drained.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Exited reports whether the process is gone.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Err returns the wait error once the process has exited.
func (p *Process) Err() error {
	<-p.done
	return p.err
}

// Pid returns the operating system process id, or 0 for a process that never started.
func (p *Process) Pid() int {
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Kill terminates the process (and its group where supported).
func (p *Process) Kill() error {
	if p.Exited() {
		return nil
	}
	return killProcess(p.cmd)
}

// Supervisor spawns mpv with the IPC endpoint and playback flags and pumps its output to a Sink.
type Supervisor struct {
	cfg  Config
	sink Sink

	// command builds the exec.Cmd; replaced in tests.
	command func(name string, args ...string) *exec.Cmd

	mu      sync.Mutex
	current *Process
	onExit  func(*Process)
}

// NewSupervisor creates a supervisor. onExit runs after each launched process has exited.
func NewSupervisor(cfg Config, sink Sink, onExit func(*Process)) *Supervisor {
	return &Supervisor{
		cfg:     cfg,
		sink:    sink,
		command: exec.Command,
		onExit:  onExit,
	}
}

// Args returns the mpv command line for a session authorised with token.
func (s *Supervisor) Args(token string) []string {
	idle := s.cfg.Idle
	if idle == "" {
		idle = "yes"
	}

	args := []string{
		"--idle=" + idle,
		"--quiet",
		"--save-position-on-quit=no",
		"--input-ipc-server=" + s.cfg.Endpoint,
	}

	if token != "" {
		args = append(args, "--http-header-fields=Authorization: Bearer "+token)
	}

	return append(args, s.cfg.ExtraArgs...)
}

// Launch starts mpv. It returns once the process has been started, not once
// its IPC endpoint accepts connections.
func (s *Supervisor) Launch(token string) (*Process, error) {
	s.mu.Lock()
	previous := s.current
	s.mu.Unlock()

	if previous != nil {
		s.reap(previous)
	}

	binary := s.cfg.Binary
	if binary == "" {
		binary = "mpv"
	}

	cmd := s.command(binary, s.Args(token)...)
	cmd.SysProcAttr = sysProcAttr()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr pipe: %v", ErrSpawn, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrSpawn, binary, err)
	}

	proc := &Process{cmd: cmd, done: make(chan struct{})}
	log.Infof("mpv started (pid %d) on %s", proc.Pid(), s.cfg.Endpoint)

	s.mu.Lock()
	s.current = proc
	s.mu.Unlock()

	go s.supervise(proc, stdout, stderr)

	return proc, nil
}

// supervise pumps both output streams, reaps the process and reports the exit.
func (s *Supervisor) supervise(proc *Process, stdout, stderr io.Reader) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.pump(Stdout, stdout)
	}()
	go func() {
		defer wg.Done()
		s.pump(Stderr, stderr)
	}()

	// Wait closes the pipes, so the pumps must drain first.
	wg.Wait()
	proc.err = proc.cmd.Wait()
	close(proc.done)

	if proc.err != nil {
		log.Infof("mpv (pid %d) exited: %v", proc.Pid(), proc.err)
	} else {
		log.Infof("mpv (pid %d) exited", proc.Pid())
	}

	s.mu.Lock()
	if s.current == proc {
		s.current = nil
	}
	s.mu.Unlock()

	if s.onExit != nil {
		s.onExit(proc)
	}
}

// pump republishes each output line. A line that is not valid UTF-8 is
// dropped on its own; the stream keeps going.
func (s *Supervisor) pump(stream Stream, r io.Reader) {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			line = trimEOL(line)
			if !utf8.Valid(line) {
				log.Warnf("mpv %s: %v: line is not valid UTF-8", stream, ErrProtocolDecode)
			} else if s.sink != nil {
				s.sink.Line(stream, string(line))
			}
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debugf("mpv %s closed: %v", stream, err)
			}
			return
		}
	}
}

// reap waits for a previous process to go away before a new one claims its endpoint.
func (s *Supervisor) reap(proc *Process) {
	grace := s.cfg.QuitGrace
	if grace <= 0 {
		grace = 3 * time.Second
	}

	select {
	case <-proc.Done():
	case <-time.After(grace):
		log.Warnf("killing mpv (pid %d): still running after %s", proc.Pid(), grace)
		_ = proc.Kill()
		<-proc.Done()
	}
}

func trimEOL(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
