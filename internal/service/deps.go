package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/services-marketplace/internal/identity"
	"github.com/iliyamo/services-marketplace/internal/queue"
)

// IdentityVerifier checks a third-party identity assertion.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (identity.Profile, error)
}

// EventPublisher publishes domain events.  Failures never fail a request.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// ObjectStore keeps uploaded pictures.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// emit publishes best effort and only logs failures.
func emit(ctx context.Context, pub EventPublisher, log *zap.Logger, typ string, payload any) {
	if pub == nil {
		return
	}
	ev, err := queue.NewEvent(typ, payload)
	if err == nil {
		err = pub.Publish(ctx, ev)
	}
	if err != nil {
		log.Warn("publish event failed", zap.String("type", typ), zap.Error(err))
	}
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
