// Package player drives an mpv process over its JSON IPC endpoint and plays a queue of karaoke track bundles through it.
package player

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/karaberus/karaplay/log"
	"github.com/samber/lo"
)

// Commander sends commands to the running player.
type Commander interface {
	Run(cmd Command) error
}

// State is a copy of the session flags and queue.
type State struct {
	ProcessRunning  bool
	PlaybackStarted bool
	Loaded          bool
	Pending         []TrackBundle
}

// Session owns one mpv session: the process, its playlist and the flags that
// tell startup idle from end-of-queue idle. All state sits behind mu, which is
// never held across an IPC round trip or a process call.
type Session struct {
	ID string

	launcher  Launcher
	commander Commander
	newEvents func() EventSource
	sink      Sink
	quitGrace time.Duration

	// OnPlay, when set, is called after a bundle has been handed to mpv.
	OnPlay func(TrackBundle)

	mu              sync.Mutex
	processRunning  bool
	playbackStarted bool
	loaded          bool
	queue           Queue[TrackBundle]
	sidecars        []RunCommand
	proc            *Process
	events          EventSource
	finished        chan struct{}

	// sendMu keeps the commands of one bundle in order: load, audio, subtitle.
	sendMu sync.Mutex
}

// NewSession wires a session to a real mpv: supervisor, per-command transport and event listener.
func NewSession(cfg Config, sink Sink) *Session {
	transport := NewTransport(cfg.Endpoint, cfg)

	s := &Session{
		commander: NewClient(transport),
		newEvents: func() EventSource { return NewEventListener(transport) },
	}
	s.init(sink, cfg.QuitGrace)
	s.launcher = NewSupervisor(cfg, sink, s.processExited)

	return s
}

func newSession(launcher Launcher, commander Commander, newEvents func() EventSource, sink Sink) *Session {
	s := &Session{
		launcher:  launcher,
		commander: commander,
		newEvents: newEvents,
	}
	s.init(sink, 0)
	return s
}

func (s *Session) init(sink Sink, grace time.Duration) {
	s.ID = uuid.NewString()
	s.sink = sink
	s.quitGrace = grace
	if s.quitGrace <= 0 {
		s.quitGrace = 3 * time.Second
	}
	s.finished = make(chan struct{})
}

// Submit requests playback of a bundle. If mpv is not running it is started
// and the head of the queue is loaded; otherwise the bundle waits its turn.
// Only a spawn failure is returned; IPC failures are logged and dropped.
func (s *Session) Submit(bundle TrackBundle, token string) error {
	if err := bundle.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.queue.Push(bundle)

	spawn := !s.processRunning
	var stale EventSource
	if spawn {
		s.processRunning = true
		s.playbackStarted = false
		s.loaded = false
		s.sidecars = nil
		// A process stopped by an earlier drain may still be exiting; its
		// exit must not reset the session about to be started.
		s.proc = nil
		stale, s.events = s.events, nil
		s.resetFinished()
	}

	var next TrackBundle
	var load bool
	if !s.loaded {
		next, load = s.queue.Pop()
		s.loaded = load
	}
	s.mu.Unlock()

	if stale != nil {
		stale.Close()
	}

	if spawn {
		if err := s.spawn(token); err != nil {
			s.mu.Lock()
			if load {
				s.queue.PushFront(next)
			}
			s.processRunning = false
			s.loaded = false
			s.mu.Unlock()
			return err
		}
	}

	if load {
		s.load(next)
	} else {
		log.Session(s.ID).Infof("queued %s", bundle)
	}

	return nil
}

func (s *Session) spawn(token string) error {
	proc, err := s.launcher.Launch(token)
	if err != nil {
		log.Session(s.ID).Error(err)
		return err
	}

	events := s.newEvents()

	s.mu.Lock()
	s.proc = proc
	s.events = events
	s.mu.Unlock()

	go s.listen(events)

	return nil
}

// listen runs the dedicated, blocking event loop for one process. Events
// from a listener that has been replaced are dropped.
func (s *Session) listen(events EventSource) {
	var seen atomic.Bool
	err := events.Listen(func(ev Event) {
		seen.Store(true)

		s.mu.Lock()
		current := s.events == events
		s.mu.Unlock()

		if current {
			s.HandleEvent(ev)
		}
	})

	switch {
	case err == nil:
	case seen.Load():
		log.Session(s.ID).Warn(err)
	default:
		// Without events the queue can never drain and an idle mpv would
		// stay up forever.
		log.Session(s.ID).Errorf("no events from mpv, stopping it: %v", err)
		s.abandon(events)
	}
}

// abandon stops the process served by a listener that never delivered an
// event. Pending bundles stay queued for the next Submit.
func (s *Session) abandon(events EventSource) {
	s.mu.Lock()
	if s.events != events || !s.processRunning {
		s.mu.Unlock()
		return
	}

	s.processRunning = false
	s.playbackStarted = false
	s.loaded = false
	s.sidecars = nil
	proc := s.proc
	s.mu.Unlock()

	s.quit(proc)
}

// load hands a bundle's primary file to mpv and remembers its sidecar tracks
// until mpv reports the item as loaded.
func (s *Session) load(bundle TrackBundle) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	s.sidecars = bundle.sidecars()
	s.mu.Unlock()

	opts := Options{}
	if bundle.Title != "" {
		opts["force-media-title"] = bundle.Title
	}

	err := s.commander.Run(LoadFile{
		URL:     bundle.Primary(),
		Flags:   AppendPlay,
		Options: opts,
	})
	if err != nil {
		log.Session(s.ID).Errorf("load %s: %v", bundle, err)
		return
	}

	log.Session(s.ID).Infof("loaded %s", bundle)
	if s.OnPlay != nil {
		s.OnPlay(bundle)
	}
}

// HandleEvent is the playlist state machine, fed by the event listener.
func (s *Session) HandleEvent(ev Event) {
	switch ev.Kind {
	case EventStartFile:
		s.mu.Lock()
		s.playbackStarted = true
		s.mu.Unlock()
	case EventFileLoaded:
		s.attachSidecars()
	case EventPropertyChange:
		s.propertyChanged(ev)
	case EventEndFile, EventIdle, EventShutdown, EventUnknown:
		log.Session(s.ID).Tracef("mpv event %s", ev.Name)
	}
}

func (s *Session) attachSidecars() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	cmds := s.sidecars
	s.sidecars = nil
	s.mu.Unlock()

	for _, cmd := range cmds {
		if err := s.commander.Run(cmd); err != nil {
			log.Session(s.ID).Errorf("%s: %v", cmd.Name, err)
		}
	}
}

func (s *Session) propertyChanged(ev Event) {
	if ev.ID != idleObserverID || ev.Property != idleProperty {
		return
	}

	switch value := ev.Value.(type) {
	case BoolValue:
		if bool(value) {
			s.idle()
			return
		}

		// Leaving idle means a file is playing. Without a start-file first,
		// the listener subscribed after mpv had already sent start-file and
		// file-loaded: mpv answers observe_property with the current value.
		s.mu.Lock()
		missed := s.loaded && !s.playbackStarted
		if s.loaded {
			s.playbackStarted = true
		}
		s.mu.Unlock()

		if missed {
			s.attachSidecars()
		}
	case NumberValue, StringValue, UnknownValue:
		log.Session(s.ID).Debugf("ignoring %s value %v", idleProperty, value)
	}
}

// idle reacts to mpv running out of things to play: load the next bundle or end the session.
func (s *Session) idle() {
	s.mu.Lock()
	if !s.playbackStarted || !s.processRunning {
		s.mu.Unlock()
		return
	}

	next, ok := s.queue.Pop()
	if ok {
		s.playbackStarted = false
		s.loaded = true
		s.mu.Unlock()

		s.load(next)
		return
	}

	s.processRunning = false
	s.playbackStarted = false
	s.loaded = false
	proc := s.proc
	s.mu.Unlock()

	log.Session(s.ID).Info("queue drained, stopping mpv")
	s.quit(proc)
}

// quit asks mpv to exit and kills it if it is still around after the grace period.
func (s *Session) quit(proc *Process) {
	s.sendMu.Lock()
	err := s.commander.Run(Quit())
	s.sendMu.Unlock()

	if err != nil && !errors.Is(err, ErrEndpointUnavailable) {
		log.Session(s.ID).Warnf("quit: %v", err)
	}

	if proc == nil {
		return
	}

	go func() {
		select {
		case <-proc.Done():
		case <-time.After(s.quitGrace):
			log.Session(s.ID).Warnf("mpv (pid %d) ignored quit, killing", proc.Pid())
			_ = proc.Kill()
		}
	}()
}

// processExited is the supervisor's termination notification.
func (s *Session) processExited(proc *Process) {
	s.mu.Lock()
	if proc != s.proc {
		s.mu.Unlock()
		log.Session(s.ID).Debugf("exit of superseded mpv (pid %d)", proc.Pid())
		return
	}

	s.proc = nil
	s.processRunning = false
	s.playbackStarted = false
	s.loaded = false
	s.sidecars = nil
	events := s.events
	s.events = nil
	finished := s.finished
	s.mu.Unlock()

	if events != nil {
		events.Close()
	}

	select {
	case <-finished:
	default:
		close(finished)
	}

	if s.sink != nil {
		s.sink.Stopped()
	}
}

// resetFinished arms a fresh Wait channel for a new process. Callers hold mu.
func (s *Session) resetFinished() {
	select {
	case <-s.finished:
		s.finished = make(chan struct{})
	default:
	}
}

// Wait returns a channel closed when the current mpv process has exited.
func (s *Session) Wait() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Running reports whether a player process is considered alive.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processRunning
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		ProcessRunning:  s.processRunning,
		PlaybackStarted: s.playbackStarted,
		Loaded:          s.loaded,
		Pending:         s.queue.Items(),
	}
}

// Close ends the session: pending bundles are dropped and mpv is told to quit.
func (s *Session) Close() error {
	s.mu.Lock()
	running := s.processRunning
	s.processRunning = false
	s.queue = Queue[TrackBundle]{}
	proc := s.proc
	s.mu.Unlock()

	if !running {
		return nil
	}

	s.quit(proc)

	if proc != nil {
		select {
		case <-proc.Done():
		case <-time.After(s.quitGrace + time.Second):
			return fmt.Errorf("mpv (pid %d) did not exit", proc.Pid())
		}
	}

	return nil
}

// Titles returns the display names of the pending bundles.
func (s State) Titles() []string {
	return lo.Map(s.Pending, func(b TrackBundle, _ int) string {
		return b.String()
	})
}
