package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"CONNECTO_WRITE_KEY":      "env-write",
				"CONNECTO_TIMEOUT":        "10s",
				"CONNECTO_RATE_LIMIT":     "2.5",
				"CONNECTO_MAX_BATCH_SIZE": "20",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				WriteKey:     "env-write",
				Timeout:      10 * time.Second,
				RateLimit:    2.5,
				MaxBatchSize: 20,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"CONNECTO_WRITE_KEY": "env-write",
				"CONNECTO_READ_KEY":  "env-read",
			},
			changed: map[string]bool{"write-key": true},
			initial: Config{WriteKey: "flag-write"},
			expected: Config{
				WriteKey: "flag-write",
				ReadKey:  "env-read",
			},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"CONNECTO_TIMEOUT": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"CONNECTO_MAX_BATCH_SIZE": "not-a-number"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid float",
			envVars: map[string]string{"CONNECTO_RATE_LIMIT": "not-a-float"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "ignores non-positive ints",
			envVars:  map[string]string{"CONNECTO_MAX_BATCH_SIZE": "0"},
			changed:  map[string]bool{},
			initial:  Config{MaxBatchSize: 50},
			expected: Config{MaxBatchSize: 50},
		},
		{
			name: "handles all field types correctly",
			envVars: map[string]string{
				"CONNECTO_WRITE_KEY":        "w",
				"CONNECTO_READ_KEY":         "r",
				"CONNECTO_EVENTS_ENDPOINT":  "http://example.com/import",
				"CONNECTO_RULES_ENDPOINT":   "http://example.com/rules?userId=",
				"CONNECTO_TIMEOUT":          "30s",
				"CONNECTO_MAX_BATCH_SIZE":   "10",
				"CONNECTO_RATE_LIMIT":       "5",
				"CONNECTO_RATE_BURST":       "2",
				"CONNECTO_BREAKER_FAILURES": "3",
				"CONNECTO_BREAKER_RESET":    "1m",
				"CONNECTO_SPOOL_DIR":        "/spool",
				"CONNECTO_SPOOL_ATTEMPTS":   "7",
				"CONNECTO_LOG_LEVEL":        "debug",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				WriteKey:        "w",
				ReadKey:         "r",
				EventsEndpoint:  "http://example.com/import",
				RulesEndpoint:   "http://example.com/rules?userId=",
				Timeout:         30 * time.Second,
				MaxBatchSize:    10,
				RateLimit:       5,
				RateBurst:       2,
				BreakerFailures: 3,
				BreakerReset:    time.Minute,
				SpoolDir:        "/spool",
				SpoolAttempts:   7,
				LogLevel:        "debug",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}
