package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	if got := New(true).GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("New(true).GetLevel() = %v want %v", got, zerolog.DebugLevel)
	}
	if got := New(false).GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("New(false).GetLevel() = %v want %v", got, zerolog.WarnLevel)
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	log.Warn().Str("key", "flow_goals").Msg("malformed value")

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"key":"flow_goals"`, `"message":"malformed value"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))
	FromContext(ctx).Info().Msg("test")
	if buf.Len() == 0 {
		t.Error("FromContext() did not return the logger of the context")
	}
}

func TestFromContextDefault(t *testing.T) {
	if got := FromContext(context.Background()).GetLevel(); got != zerolog.Disabled {
		t.Errorf("FromContext(empty).GetLevel() = %v want %v", got, zerolog.Disabled)
	}
}
