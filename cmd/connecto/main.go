package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/connecto-io/connecto-go/internal/cliconfig"
	"github.com/connecto-io/connecto-go/pkg/connecto"
	"github.com/connecto-io/connecto-go/pkg/log"
)

const helpDescription = `
Send analytics events and profile updates to Connecto from the command line.

Highlights:
  - track and identify send a single message.
  - import sends newline-delimited JSON records in batches.
  - spool watches a directory and delivers every .ndjson file dropped in it.
  - segments lists the segments a user currently belongs to.

Configuration comes from flags, CONNECTO_* environment variables and
$HOME/.connecto/config.toml, in that order of precedence.
`

var exampleUsage = strings.TrimSpace(`
  connecto track signup --write-key <key> --distinct-id user-42 --props '{"plan":"pro"}'
  connecto identify --write-key <key> --distinct-id user-42 --traits '{"name":"Ada"}'
  connecto import events.ndjson
  connecto spool --spool-dir /var/spool/connecto
  connecto segments user-42 --read-key <key>
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries state shared by the subcommands once flags are parsed.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	changed map[string]bool
	zlog    zerolog.Logger
	logger  log.Logger
	client  *connecto.Client
}

// configFile returns the config file in effect, or "" if none.
func (c *cli) configFile() string {
	if c.cfgPath != "" {
		return c.cfgPath
	}
	return cliconfig.DefaultConfigPath()
}

func (c *cli) load(cmd *cobra.Command) error {
	c.changed = map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { c.changed[f.Name] = true })

	if err := cliconfig.Load(&c.cfg, c.configFile(), c.changed); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	level, _ := c.cfg.Level()
	c.zlog = cliconfig.NewLogger(os.Stderr, level)
	c.logger = log.NewZerologAdapterWithLogger(c.zlog)

	logCfg := c.cfg
	if logCfg.WriteKey != "" {
		logCfg.WriteKey = "*****"
	}
	if logCfg.ReadKey != "" {
		logCfg.ReadKey = "*****"
	}
	c.zlog.Debug().Interface("config", logCfg).Msg("configuration")

	client, err := connecto.New(c.cfg.ClientConfig(), c.cfg.ClientOptions(c.logger)...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	c.client = client
	return nil
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "connecto",
		Short:         "Send analytics events and profile updates to Connecto",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.connecto/config.toml)")
	f.StringVar(&c.cfg.WriteKey, "write-key", c.cfg.WriteKey, "project write key stamped on messages")
	f.StringVar(&c.cfg.ReadKey, "read-key", c.cfg.ReadKey, "project read key for segment queries")
	f.StringVar(&c.cfg.EventsEndpoint, "events-endpoint", c.cfg.EventsEndpoint, "URL receiving message batches")
	f.StringVar(&c.cfg.RulesEndpoint, "rules-endpoint", c.cfg.RulesEndpoint, "segment query URL; the user id is appended")
	f.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "HTTP timeout per request")
	f.IntVar(&c.cfg.MaxBatchSize, "max-batch-size", c.cfg.MaxBatchSize, "maximum messages per request")
	f.Float64Var(&c.cfg.RateLimit, "rate-limit", c.cfg.RateLimit, "maximum requests per second (0 disables)")
	f.IntVar(&c.cfg.RateBurst, "rate-burst", c.cfg.RateBurst, "request burst allowed by the rate limit")
	f.IntVar(&c.cfg.BreakerFailures, "breaker-failures", c.cfg.BreakerFailures, "consecutive transport failures that open the circuit (0 disables)")
	f.DurationVar(&c.cfg.BreakerReset, "breaker-reset", c.cfg.BreakerReset, "how long an open circuit rejects requests")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	for _, name := range []string{"events-endpoint", "rules-endpoint"} {
		if err := f.MarkHidden(name); err != nil {
			c.zlog.Info().Err(err).Str("flag", name).Msg("failed to hide flag")
		}
	}

	root.AddCommand(
		newTrackCommand(c),
		newIdentifyCommand(c),
		newImportCommand(c),
		newSegmentsCommand(c),
		newSpoolCommand(c),
	)
	return root
}

func main() {
	c := &cli{
		cfg:  cliconfig.DefaultConfig(),
		zlog: cliconfig.NewLogger(os.Stderr, zerolog.InfoLevel),
	}

	if err := newRootCommand(c).Execute(); err != nil {
		c.zlog.Error().Err(err).Msg("connecto")
		os.Exit(1)
	}
}
