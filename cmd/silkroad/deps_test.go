package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/silkroad/internal/infrastructure/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantDebug bool
		wantJSON  bool
	}{
		{name: "defaults to info text", cfg: config.LogConfig{}},
		{name: "debug level", cfg: config.LogConfig{Level: "debug"}, wantDebug: true},
		{name: "json format", cfg: config.LogConfig{Level: "info", Format: "JSON"}, wantJSON: true},
		{name: "unknown level falls back to info", cfg: config.LogConfig{Level: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tt.cfg, &buf)

			logger.Debug("debug line")
			logger.Info("info line", "caravan", "SG-001")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Contains(t, out, "info line")
			if tt.wantJSON {
				assert.Contains(t, out, `"caravan":"SG-001"`)
			} else {
				assert.Contains(t, out, "caravan=SG-001")
			}
		})
	}
}
