package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty db path returns ErrDBPathEmpty",
			config:  Config{DBPath: ""},
			wantErr: ErrDBPathEmpty,
		},
		{
			name:    "blank db path returns ErrDBPathEmpty",
			config:  Config{DBPath: "   "},
			wantErr: ErrDBPathEmpty,
		},
		{
			name:    "trailing slash returns ErrDBPathIsDir",
			config:  Config{DBPath: "data/"},
			wantErr: ErrDBPathIsDir,
		},
		{
			name:    "unknown log level returns ErrLogLevelUnknown",
			config:  Config{DBPath: "data/nexus.db", LogLevel: "verbose"},
			wantErr: ErrLogLevelUnknown,
		},
		{
			name:    "log level is case insensitive",
			config:  Config{DBPath: "data/nexus.db", LogLevel: "DEBUG"},
			wantErr: nil,
		},
		{
			name:    "empty log level is valid",
			config:  Config{DBPath: "/tmp/nexus.db"},
			wantErr: nil,
		},
		{
			name:    "default config is valid",
			config:  DefaultConfig(),
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DBPath != "data/nexus.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "data/nexus.db")
	}
	if cfg.LogLevel != LogLevelInfo {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, LogLevelInfo)
	}
}
