package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/connecto-io/connecto-go/internal/app"
	"github.com/connecto-io/connecto-go/internal/cliconfig"
	"github.com/connecto-io/connecto-go/internal/watch"
	"github.com/connecto-io/connecto-go/pkg/connecto"
	"github.com/connecto-io/connecto-go/pkg/delivery"
	"github.com/connecto-io/connecto-go/pkg/message"
)

func newTrackCommand(c *cli) *cobra.Command {
	var distinctID, props string
	cmd := &cobra.Command{
		Use:   "track <event>",
		Short: "Send one track event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.RequireWriteKey(); err != nil {
				return err
			}
			var properties map[string]any
			if props != "" {
				if err := decodeJSON(props, &properties); err != nil {
					return fmt.Errorf("parse --props: %w", err)
				}
			}

			m, err := c.client.Builder(c.cfg.WriteKey).Event(distinctID, args[0], properties)
			if err != nil {
				return err
			}
			return send(cmd, c, m)
		},
	}
	cmd.Flags().StringVar(&distinctID, "distinct-id", "", "id of the acting user (empty for anonymous)")
	cmd.Flags().StringVar(&props, "props", "", "event properties as a JSON object")
	return cmd
}

func newIdentifyCommand(c *cli) *cobra.Command {
	var distinctID, traits string
	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Set profile traits for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.RequireWriteKey(); err != nil {
				return err
			}
			var value any = message.Null
			if traits != "null" {
				if err := decodeJSON(traits, &value); err != nil {
					return fmt.Errorf("parse --traits: %w", err)
				}
			}

			m, err := c.client.Builder(c.cfg.WriteKey).Identify(distinctID, value)
			if err != nil {
				return err
			}
			return send(cmd, c, m)
		},
	}
	cmd.Flags().StringVar(&distinctID, "distinct-id", "", "id of the user whose profile is updated")
	cmd.Flags().StringVar(&traits, "traits", "{}", "profile traits as JSON")
	return cmd
}

func send(cmd *cobra.Command, c *cli, m message.Message) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := c.client.SendMessage(ctx, m); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), m.Header().MessageID)
	return nil
}

func newImportCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Deliver newline-delimited JSON message records",
		Long:  "Reads one message record per line from file, or stdin when file is omitted or \"-\", and delivers them in batches.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			d := delivery.New()
			res, err := app.ReadNDJSON(r, d, c.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := c.client.Deliver(ctx, d); err != nil {
				return describeDeliveryError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "delivered %d track and %d identify messages (%d skipped)\n",
				len(d.TrackMessages()), len(d.IdentifyMessages()), res.Skipped)
			return nil
		},
	}
}

func describeDeliveryError(err error) error {
	var rejected *connecto.ServerRejectionError
	if errors.As(err, &rejected) {
		return fmt.Errorf("%w (first refused message %s)", err, firstID(rejected.Batch))
	}
	var transport *connecto.TransportError
	if errors.As(err, &transport) {
		return fmt.Errorf("%w (first unsent message %s)", err, firstID(transport.Batch))
	}
	return err
}

func firstID(b *connecto.Batch) string {
	if ids := b.MessageIDs(); len(ids) > 0 {
		return ids[0]
	}
	return "none"
}

func newSegmentsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "segments <user-id>",
		Short: "List the segments a user belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.RequireReadKey(); err != nil {
				return err
			}
			resp, err := c.client.Segments(cmd.Context(), c.cfg.ReadKey, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !resp.Available {
				fmt.Fprintln(out, "segments unavailable")
				return nil
			}
			for _, s := range resp.Segments {
				fmt.Fprintf(out, "%s\t%s\n", s.ID, s.Title)
			}
			return nil
		},
	}
}

func newSpoolCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spool",
		Short: "Deliver every .ndjson file dropped into a directory",
		Long: `Delivers pending .ndjson files in the spool directory, then watches it for new
ones. Delivered files are renamed *.ndjson.sent and refused files *.ndjson.failed.
Changes to the config file update the request timeout without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.SpoolDir == "" {
				return errors.New("spool-dir is required")
			}
			return runSpool(cmd.Context(), c)
		},
	}
	cmd.Flags().StringVar(&c.cfg.SpoolDir, "spool-dir", c.cfg.SpoolDir, "directory to watch for .ndjson files")
	cmd.Flags().IntVar(&c.cfg.SpoolAttempts, "spool-attempts", c.cfg.SpoolAttempts, "transport attempts per file before leaving it for the next run")
	return cmd
}

func runSpool(parent context.Context, c *cli) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	files := make(chan string, 16)
	spooler := app.NewSpooler(app.SpoolConfig{
		Dir:         c.cfg.SpoolDir,
		MaxAttempts: c.cfg.SpoolAttempts,
	}, c.client, c.logger, nil)

	dirWatcher := watch.NewDirWatcher(c.cfg.SpoolDir, app.SpoolExt, 0, c.logger)
	watchErr := make(chan error, 2)
	go func() { watchErr <- dirWatcher.Run(ctx, files) }()

	if path := c.configFile(); path != "" && cliconfig.FileExists(path) {
		cfgWatcher := watch.NewConfigWatcher(path, 0, func(context.Context) { reloadTimeout(c, path) }, c.logger)
		go func() { watchErr <- cfgWatcher.Run(ctx) }()
	}

	if err := spooler.Start(ctx, files); err != nil {
		return err
	}
	c.zlog.Info().Str("dir", c.cfg.SpoolDir).Msg("spooling")

	var runErr error
	select {
	case <-ctx.Done():
		c.zlog.Info().Msg("received signal, stopping...")
	case runErr = <-watchErr:
	}

	if err := spooler.Stop(); err != nil {
		return errors.Join(runErr, fmt.Errorf("stop spooler: %w", err))
	}
	return runErr
}

// reloadTimeout re-reads the config file and applies a changed timeout
// to the running client. Flag values keep precedence.
func reloadTimeout(c *cli, path string) {
	next := c.cfg
	if err := cliconfig.Load(&next, path, c.changed); err != nil {
		c.zlog.Warn().Err(err).Msg("config reload failed")
		return
	}
	if err := next.Validate(); err != nil {
		c.zlog.Warn().Err(err).Msg("reloaded config is invalid, keeping current settings")
		return
	}
	if next.Timeout != c.client.Timeout() {
		c.client.SetTimeout(next.Timeout)
		c.zlog.Info().Dur("timeout", next.Timeout).Msg("timeout reloaded")
	}
}

// decodeJSON decodes s keeping numbers exact.
func decodeJSON(s string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	return dec.Decode(v)
}
