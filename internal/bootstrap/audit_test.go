package bootstrap

import (
	"context"
	"testing"
	"time"

	"go-rotc/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewZapAuditLogger(zap.New(core))
	l.now = func() time.Time { return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) }

	ctx := contextutil.WithActorID(contextutil.WithRequestID(context.Background(), "rid-1"), "coord-1")
	l.Log(ctx, AuditLog{Action: "SESSION_ENDED", Message: "ended", Meta: map[string]any{"session_id": "s1"}})

	entries := logs.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "SESSION_ENDED", fields["action"])
	assert.Equal(t, "rid-1", fields["request_id"])
	assert.Equal(t, "coord-1", fields["actor_id"])
	assert.Equal(t, "2026-09-01T08:00:00Z", fields["timestamp"])
}
