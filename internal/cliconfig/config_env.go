package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (CONNECTO_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("write-key", os.Getenv("CONNECTO_WRITE_KEY"), &cfg.WriteKey)
	s.setString("read-key", os.Getenv("CONNECTO_READ_KEY"), &cfg.ReadKey)
	s.setString("events-endpoint", os.Getenv("CONNECTO_EVENTS_ENDPOINT"), &cfg.EventsEndpoint)
	s.setString("rules-endpoint", os.Getenv("CONNECTO_RULES_ENDPOINT"), &cfg.RulesEndpoint)
	s.setString("spool-dir", os.Getenv("CONNECTO_SPOOL_DIR"), &cfg.SpoolDir)
	s.setString("log-level", os.Getenv("CONNECTO_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv("CONNECTO_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("breaker-reset", os.Getenv("CONNECTO_BREAKER_RESET"), &cfg.BreakerReset); err != nil {
		return err
	}

	if err := s.setFloatFromString("rate-limit", os.Getenv("CONNECTO_RATE_LIMIT"), &cfg.RateLimit); err != nil {
		return err
	}

	if err := s.setIntFromString("max-batch-size", os.Getenv("CONNECTO_MAX_BATCH_SIZE"), &cfg.MaxBatchSize); err != nil {
		return err
	}
	if err := s.setIntFromString("rate-burst", os.Getenv("CONNECTO_RATE_BURST"), &cfg.RateBurst); err != nil {
		return err
	}
	if err := s.setIntFromString("breaker-failures", os.Getenv("CONNECTO_BREAKER_FAILURES"), &cfg.BreakerFailures); err != nil {
		return err
	}
	if err := s.setIntFromString("spool-attempts", os.Getenv("CONNECTO_SPOOL_ATTEMPTS"), &cfg.SpoolAttempts); err != nil {
		return err
	}

	return nil
}
