package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/karaberus/karaplay/auth"
	"github.com/karaberus/karaplay/color"
	"github.com/karaberus/karaplay/config"
	"github.com/karaberus/karaplay/history"
	"github.com/karaberus/karaplay/icon"
	"github.com/karaberus/karaplay/log"
	"github.com/karaberus/karaplay/player"
	"github.com/karaberus/karaplay/style"
	"github.com/karaberus/karaplay/util"
	"github.com/karaberus/karaplay/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// consoleSink prints mpv output and the end of the session on the terminal.
type consoleSink struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

func (c *consoleSink) Line(stream player.Stream, line string) {
	log.Debugf("mpv %s: %s", stream, line)

	if !c.verbose {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if stream == player.Stderr {
		_, _ = fmt.Fprintln(c.out, style.Fg(color.Yellow)(line))
		return
	}
	_, _ = fmt.Fprintln(c.out, style.Faint(line))
}

func (c *consoleSink) Stopped() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, "%s mpv stopped\n", icon.Get(icon.Stop))
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().String("token", "", "Bearer token sent to media servers (defaults to the stored token)")
	cmd.Flags().Bool("mpv-output", false, "Print mpv output")
}

// token picks the --token flag, then the keyring.
func token(cmd *cobra.Command) (string, error) {
	if t := lo.Must(cmd.Flags().GetString("token")); t != "" {
		return t, nil
	}
	return auth.Token()
}

// karaokeSession is one mpv session owned by this process.
type karaokeSession struct {
	*player.Session
	lock *flock.Flock
}

// openSession locks the endpoint and prepares a session for it.
// Two karaplay processes driving the same mpv endpoint would fight over it.
func openSession(cmd *cobra.Command) (*karaokeSession, error) {
	if problems := config.Problems(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid settings, see `%s config check`: %w", cmd.Root().Name(), errors.Join(problems...))
	}

	cfg := player.ConfigFromViper()

	lock := flock.New(where.Lock(cfg.Endpoint))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another %s session is using %s", cmd.Root().Name(), cfg.Endpoint)
	}

	sink := &consoleSink{
		out:     cmd.OutOrStdout(),
		verbose: lo.Must(cmd.Flags().GetBool("mpv-output")),
	}

	session := player.NewSession(cfg, sink)
	session.OnPlay = func(bundle player.TrackBundle) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", icon.Get(icon.Play), style.Bold(bundle.String()))

		err := history.Record(&history.Entry{
			Title:        bundle.String(),
			Video:        bundle.Video.OrEmpty(),
			Instrumental: bundle.Instrumental.OrEmpty(),
			Subtitle:     bundle.Subtitle.OrEmpty(),
			Session:      session.ID,
		})
		if err != nil {
			log.Warnf("record history: %v", err)
		}
	}

	log.Session(session.ID).Infof("session opened on %s", cfg.Endpoint)
	return &karaokeSession{Session: session, lock: lock}, nil
}

// submit hands a bundle to the session and reports where it went.
func (k *karaokeSession) submit(cmd *cobra.Command, bundle player.TrackBundle, tok string) error {
	queued := k.Running()

	if err := k.Submit(bundle, tok); err != nil {
		if errors.Is(err, player.ErrSpawn) {
			return fmt.Errorf("%w (is mpv installed? try `%s check`)", err, cmd.Root().Name())
		}
		return err
	}

	if queued {
		pending := len(k.Snapshot().Pending)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s queued %s %s\n",
			icon.Get(icon.Queue),
			bundle,
			style.Faint(fmt.Sprintf("(%s ahead)", util.Quantify(pending-1, "song", "songs"))),
		)
	}
	return nil
}

// wait blocks until mpv has exited, quitting it on interrupt.
func (k *karaokeSession) wait() {
	defer util.Ignore(k.lock.Unlock)

	if !k.Running() {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-k.Wait():
	case <-ctx.Done():
		log.Session(k.ID).Info("interrupted")
		if err := k.Close(); err != nil {
			log.Session(k.ID).Warn(err)
		}
	}
}
