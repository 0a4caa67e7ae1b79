package main

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
	}{
		{"debug", true},
		{"info", false},
		{"nonsense", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("probe", "action", "test")
			if got := buf.Len() > 0; got != tt.debugSeen {
				t.Fatalf("debug written = %v, want %v", got, tt.debugSeen)
			}
			if !tt.debugSeen {
				return
			}
			var rec map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("not JSON: %v", err)
			}
			if rec["service"] != "mimi-order" || rec["action"] != "test" {
				t.Errorf("record = %v", rec)
			}
		})
	}
}
