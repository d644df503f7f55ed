// Package enrich joins change records against the reference cache and
// builds the typed view models exposed to callers.
package enrich

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/render"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache"
)

const tracerName = "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/enrich"

// Dispatcher enriches batches of change records. It is safe for concurrent
// use and never fails: records it cannot complete are dropped.
type Dispatcher struct {
	refs   *refcache.Accessor
	loc    render.Localizer
	zone   *time.Location
	tracer trace.Tracer
}

// NewDispatcher builds a dispatcher reading from refs and formatting
// creation stamps in zone (time.Local when nil).
func NewDispatcher(refs *refcache.Accessor, loc render.Localizer, zone *time.Location) *Dispatcher {
	if zone == nil {
		zone = time.Local
	}
	return &Dispatcher{
		refs:   refs,
		loc:    loc,
		zone:   zone,
		tracer: otel.Tracer(tracerName),
	}
}

// Notifications enriches one notification batch, preserving input order.
func (d *Dispatcher) Notifications(ctx context.Context, batch []domain.ChangeRecord) []domain.Notification {
	ctx, span := d.tracer.Start(ctx, "enrich.notifications")
	defer span.End()

	out := make([]domain.Notification, 0, len(batch))
	for _, record := range batch {
		notification, ok := d.notification(ctx, record)
		if !ok || !notification.Complete() {
			continue
		}
		out = append(out, notification)
	}

	span.SetAttributes(
		attribute.Int("records.received", len(batch)),
		attribute.Int("records.kept", len(out)),
		attribute.Int("records.dropped", len(batch)-len(out)),
	)
	return out
}

// Chats enriches one chat batch for viewerID, preserving input order.
func (d *Dispatcher) Chats(ctx context.Context, viewerID string, batch []domain.ChangeRecord) []domain.Chat {
	ctx, span := d.tracer.Start(ctx, "enrich.chats")
	defer span.End()

	viewerID = strings.TrimSpace(viewerID)
	out := make([]domain.Chat, 0, len(batch))
	for _, record := range batch {
		chat, ok := d.chat(ctx, viewerID, record)
		if !ok {
			continue
		}
		out = append(out, chat)
	}

	span.SetAttributes(
		attribute.Int("records.received", len(batch)),
		attribute.Int("records.kept", len(out)),
	)
	return out
}

// notification dispatches one record to its kind's builder. A panic in a
// builder drops the record.
func (d *Dispatcher) notification(ctx context.Context, record domain.ChangeRecord) (n domain.Notification, ok bool) {
	defer func() {
		if recover() != nil {
			n, ok = domain.Notification{}, false
		}
	}()

	kind, known := domain.ParseKind(record.Kind)
	if !known {
		return domain.Notification{}, false
	}
	build, known := builders[kind]
	if !known {
		return domain.Notification{}, false
	}
	createdAt, valid := record.Timestamp.Time()
	if !valid {
		return domain.Notification{}, false
	}
	return build(ctx, d, kind, record, render.Stamp(createdAt, d.zone))
}

func (d *Dispatcher) chat(ctx context.Context, viewerID string, record domain.ChangeRecord) (domain.Chat, bool) {
	if viewerID == "" || strings.TrimSpace(record.Message) == "" {
		return domain.Chat{}, false
	}
	createdAt, valid := record.Timestamp.Time()
	if !valid {
		return domain.Chat{}, false
	}
	sender, ok := d.refs.User(ctx, record.Sender)
	if !ok {
		return domain.Chat{}, false
	}
	receiver, ok := d.refs.User(ctx, record.Receiver)
	if !ok {
		return domain.Chat{}, false
	}

	chat := domain.Chat{
		ID:        record.ID,
		Message:   record.Message,
		CreatedAt: render.Stamp(createdAt, d.zone),
	}
	switch viewerID {
	case strings.TrimSpace(record.Sender):
		chat.User, chat.Myself, chat.Outgoing = receiver, sender, true
	case strings.TrimSpace(record.Receiver):
		chat.User, chat.Myself = sender, receiver
	default:
		return domain.Chat{}, false
	}
	return chat, true
}
