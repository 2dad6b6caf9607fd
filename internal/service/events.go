package service

import (
	"context"
	"encoding/json"
	"time"

	"yatube/internal/model"
	"yatube/internal/pkg"

	"github.com/rs/zerolog"
)

const (
	EventPostCreated = "post.created"
	EventPostUpdated = "post.updated"
)

// EventSender delivers one keyed message, e.g. pkg.KafkaProducer.
type EventSender interface {
	Send(ctx context.Context, key string, value []byte) error
}

type PostEvent struct {
	Type       string    `json:"type"`
	PostID     uint64    `json:"post_id"`
	AuthorID   uint64    `json:"author_id"`
	GroupID    *uint64   `json:"group_id,omitempty"`
	Text       string    `json:"text"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher announces saved posts. A nil sender disables it.
type EventPublisher struct {
	sender EventSender
}

func NewEventPublisher(sender EventSender) *EventPublisher {
	return &EventPublisher{sender: sender}
}

// PostSaved never fails the caller; delivery problems are only logged.
func (p *EventPublisher) PostSaved(ctx context.Context, eventType string, post *model.Post) {
	if p == nil || p.sender == nil {
		return
	}
	logger := zerolog.Ctx(ctx)

	payload, err := json.Marshal(PostEvent{
		Type:       eventType,
		PostID:     post.ID,
		AuthorID:   post.AuthorID,
		GroupID:    post.GroupID,
		Text:       post.Text,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("encode post event")
		return
	}
	if err := p.sender.Send(ctx, pkg.MakeKeyFromID(post.ID), payload); err != nil {
		logger.Warn().Err(err).Str("event", eventType).Uint64("post_id", post.ID).Msg("post event not delivered")
		return
	}
	logger.Debug().Str("event", eventType).Uint64("post_id", post.ID).Msg("post event sent")
}
