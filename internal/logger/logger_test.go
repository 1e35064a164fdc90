package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := parseLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"text", "info", "text", false},
		{"json", "debug", "json", false},
		{"bad format", "info", "xml", true},
		{"bad level", "loud", "text", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Init(tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if GetZapLogger() == nil || Log == nil {
				t.Fatal("logger not initialized")
			}
			if WithFields(map[string]interface{}{"transfer_id": "t1"}) == nil {
				t.Error("WithFields() = nil")
			}
		})
	}
}

func TestGetZapLogger_BeforeInit(t *testing.T) {
	saved := logger
	logger = nil
	defer func() { logger = saved }()

	if GetZapLogger() == nil {
		t.Error("GetZapLogger() = nil before Init")
	}
}
