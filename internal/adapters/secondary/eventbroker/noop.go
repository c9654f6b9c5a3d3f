package eventbroker

import (
	"context"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

// NoopPublisher est utilisé quand NATS_URL est vide.
type NoopPublisher struct{}

var _ ports.EventPublisher = NoopPublisher{}

func (NoopPublisher) PublishPostCreated(context.Context, *domain.Post) error     { return nil }
func (NoopPublisher) PublishPostUpdated(context.Context, *domain.Post) error     { return nil }
func (NoopPublisher) PublishPostDeleted(context.Context, string) error           { return nil }
func (NoopPublisher) PublishMediaOrphaned(context.Context, string, string) error { return nil }
