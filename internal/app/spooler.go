package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/connecto-io/connecto-go/internal/domain"
	"github.com/connecto-io/connecto-go/pkg/delivery"
	"github.com/connecto-io/connecto-go/pkg/log"
	"github.com/connecto-io/connecto-go/pkg/message"
)

// Spool file suffixes.
const (
	SpoolExt    = ".ndjson"
	SentExt     = ".sent"
	RejectedExt = ".failed"
)

// Deliverer sends a delivery. *Engine and the public client satisfy it.
type Deliverer interface {
	Deliver(ctx context.Context, d *delivery.Delivery) error
	MaxBatchSize() int
}

// SpoolConfig configures a Spooler.
type SpoolConfig struct {
	// Dir is scanned for pending *.ndjson files at start.
	Dir string

	// MaxAttempts bounds transport attempts per file. Zero means 5.
	MaxAttempts int

	BackoffInitial time.Duration
	BackoffMax     time.Duration

	// ShutdownTimeout bounds how long Stop waits for the worker. Zero
	// means ShutdownTimeout.
	ShutdownTimeout time.Duration
}

// Spooler delivers NDJSON files dropped into a directory.
//
// A delivered file is renamed with SentExt. A file the endpoint refuses is
// renamed with RejectedExt. A file that keeps failing in transport is left
// in place and picked up again at the next start.
type Spooler struct {
	config    SpoolConfig
	deliverer Deliverer
	logger    log.Logger
	lifecycle *Lifecycle
}

// NewSpooler creates a stopped spooler.
func NewSpooler(config SpoolConfig, deliverer Deliverer, logger log.Logger, listener StateListener) *Spooler {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 5
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = ShutdownTimeout
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Spooler{
		config:    config,
		deliverer: deliverer,
		logger:    logger,
		lifecycle: NewLifecycle(logger, listener),
	}
}

// State returns the spooler's lifecycle state.
func (s *Spooler) State() State {
	return s.lifecycle.State()
}

// Start processes pending files in Dir and then every path received on
// files, in a background goroutine, until Stop is called or files is
// closed.
func (s *Spooler) Start(ctx context.Context, files <-chan string) error {
	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(StateStarting, "start requested"); err != nil {
		return err
	}

	pending, err := s.Pending()
	if err != nil {
		_ = s.lifecycle.TransitionTo(StateCrashed, err.Error())
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.lifecycle.SetCancel(cancel)
	s.lifecycle.AddWorker()
	go s.run(runCtx, pending, files)

	return s.lifecycle.TransitionTo(StateRunning, "spool worker started")
}

// Stop cancels in-flight work and waits up to the configured shutdown
// timeout for it. On timeout the spooler is left Crashed.
func (s *Spooler) Stop() error {
	if !s.lifecycle.CanStop() {
		return domain.ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(StateStopping, "stop requested"); err != nil {
		return err
	}

	s.lifecycle.Cancel()
	if err := s.lifecycle.WaitWithTimeout(s.config.ShutdownTimeout); err != nil {
		_ = s.lifecycle.TransitionTo(StateCrashed, "shutdown timeout")
		return err
	}
	return s.lifecycle.TransitionTo(StateStopped, "stopped")
}

func (s *Spooler) run(ctx context.Context, pending []string, files <-chan string) {
	defer s.lifecycle.WorkerDone()

	for _, path := range pending {
		if ctx.Err() != nil {
			return
		}
		s.handle(ctx, path)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-files:
			if !ok {
				return
			}
			s.handle(ctx, path)
		}
	}
}

func (s *Spooler) handle(ctx context.Context, path string) {
	if err := s.ProcessFile(ctx, path); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("spool file not delivered",
			log.String("path", path),
			log.Err(err))
	}
}

// Pending returns the *.ndjson files in Dir, sorted by name.
func (s *Spooler) Pending() ([]string, error) {
	if s.config.Dir == "" {
		return nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(s.config.Dir, "*"+SpoolExt))
	if err != nil {
		return nil, fmt.Errorf("scan spool dir: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// ProcessFile delivers the records of one spool file and renames it by
// outcome. Transport failures are retried with backoff; batches accepted
// before a failure are not sent again.
func (s *Spooler) ProcessFile(ctx context.Context, path string) error {
	if !strings.HasSuffix(path, SpoolExt) {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open spool file: %w", err)
	}
	d := delivery.New()
	res, err := ReadNDJSON(f, d, s.logger)
	f.Close()
	if err != nil {
		return err
	}

	if res.Added == 0 && res.Skipped > 0 {
		return s.finish(path, RejectedExt)
	}

	b := newBackoff(s.config.BackoffInitial, s.config.BackoffMax)
	for attempt := 1; ; attempt++ {
		err := s.deliverer.Deliver(ctx, d)
		if err == nil {
			s.logger.Info("spool file delivered",
				log.String("path", path),
				log.Int("messages", res.Added),
				log.Int("skipped", res.Skipped))
			return s.finish(path, SentExt)
		}

		var rejected *domain.ServerRejectionError
		if errors.As(err, &rejected) {
			if ferr := s.finish(path, RejectedExt); ferr != nil {
				return errors.Join(err, ferr)
			}
			return err
		}

		var transport *domain.TransportError
		if !errors.As(err, &transport) || attempt >= s.config.MaxAttempts {
			return err
		}
		d = Remaining(d, transport.Batch, s.deliverer.MaxBatchSize())

		s.logger.Warn("spool delivery failed, retrying",
			log.String("path", path),
			log.Int("attempt", attempt),
			log.Duration("backoff", b.Current()),
			log.Err(err))
		if werr := b.Wait(ctx); werr != nil {
			return werr
		}
	}
}

func (s *Spooler) finish(path, ext string) error {
	if err := os.Rename(path, path+ext); err != nil {
		return fmt.Errorf("rename spool file: %w", err)
	}
	return nil
}

// Remaining returns a delivery holding the messages of d from failed
// onward: the failed batch and everything that would have been sent
// after it.
func Remaining(d *delivery.Delivery, failed *domain.Batch, size int) *delivery.Delivery {
	out := delivery.New()
	if failed == nil {
		for _, t := range []message.Type{message.TypeTrack, message.TypeIdentify} {
			for _, m := range d.Messages(t) {
				_ = out.Add(m)
			}
		}
		return out
	}

	if failed.Type == message.TypeTrack {
		for _, m := range skip(d.TrackMessages(), failed.Index*size) {
			_ = out.Add(m)
		}
	}
	identify := d.IdentifyMessages()
	if failed.Type == message.TypeIdentify {
		identify = skip(identify, failed.Index*size)
	}
	for _, m := range identify {
		_ = out.Add(m)
	}
	return out
}

func skip(msgs []message.Message, n int) []message.Message {
	if n >= len(msgs) {
		return nil
	}
	return msgs[n:]
}
