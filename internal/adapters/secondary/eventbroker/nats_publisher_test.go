package eventbroker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
)

func TestNewPostEvent(t *testing.T) {
	ts := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	post := &domain.Post{ID: "p1", Title: "hello", Image: &domain.Image{URL: "https://cdn/x.png", ID: "x"}, CreatedAt: ts, UpdatedAt: ts}

	evt := newPostEvent(post)
	assert.Equal(t, "p1", evt.ID)
	assert.True(t, evt.HasImage)
	assert.Equal(t, "https://cdn/x.png", evt.ImageURL)

	evt = newPostEvent(&domain.Post{ID: "p2"})
	assert.False(t, evt.HasImage)
	assert.Empty(t, evt.ImageURL)
}

func TestNewMessage_InjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	msg, err := newMessage(ctx, SubjectMediaOrphaned, MediaOrphanedEvent{ImageID: "abc123", Reason: "post deleted"})
	require.NoError(t, err)

	assert.Equal(t, SubjectMediaOrphaned, msg.Subject)
	// Clé canonisée par HeaderCarrier : relire comme le ferait un consumer
	assert.Contains(t, propagation.HeaderCarrier(msg.Header).Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")

	extracted := trace.SpanContextFromContext(otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header)))
	assert.Equal(t, sc.TraceID(), extracted.TraceID())
	assert.Equal(t, sc.SpanID(), extracted.SpanID())

	var decoded MediaOrphanedEvent
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "abc123", decoded.ImageID)
	assert.Equal(t, "post deleted", decoded.Reason)
}
