package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/blog-service/internal/core/domain"
	"github.com/jupiterclapton/blog-service/internal/core/ports"
)

const (
	SubjectPostCreated   = "post.created"
	SubjectPostUpdated   = "post.updated"
	SubjectPostDeleted   = "post.deleted"
	SubjectMediaOrphaned = "media.orphaned"
)

type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

var _ ports.EventPublisher = (*NatsPublisher)(nil)

// Structure des events (contrat implicite avec les consommateurs)
type PostEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	HasImage  bool      `json:"has_image"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostDeletedEvent struct {
	ID string `json:"id"`
}

// MediaOrphanedEvent signale un asset que personne ne référence plus. Un job opérateur peut le purger.
type MediaOrphanedEvent struct {
	ImageID    string    `json:"image_id"`
	Reason     string    `json:"reason"`
	DetectedAt time.Time `json:"detected_at"`
}

func newPostEvent(post *domain.Post) PostEvent {
	evt := PostEvent{
		ID:        post.ID,
		Title:     post.Title,
		HasImage:  post.HasImage(),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if post.Image != nil {
		evt.ImageURL = post.Image.URL
	}
	return evt
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return p.publish(ctx, SubjectPostCreated, newPostEvent(post))
}

func (p *NatsPublisher) PublishPostUpdated(ctx context.Context, post *domain.Post) error {
	return p.publish(ctx, SubjectPostUpdated, newPostEvent(post))
}

func (p *NatsPublisher) PublishPostDeleted(ctx context.Context, postID string) error {
	return p.publish(ctx, SubjectPostDeleted, PostDeletedEvent{ID: postID})
}

func (p *NatsPublisher) PublishMediaOrphaned(ctx context.Context, imageID, reason string) error {
	return p.publish(ctx, SubjectMediaOrphaned, MediaOrphanedEvent{
		ImageID:    imageID,
		Reason:     reason,
		DetectedAt: time.Now().UTC(),
	})
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, event any) error {
	msg, err := newMessage(ctx, subject, event)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "📢 Publishing event", "subject", subject)
	return p.nc.PublishMsg(msg)
}

// newMessage encode l'event et injecte le contexte de trace dans les headers NATS.
func newMessage(ctx context.Context, subject string, event any) (*nats.Msg, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshalling error: %w", err)
	}
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return msg, nil
}
