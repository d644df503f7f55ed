// Package app wires the change streams, enrichment and alerts into the
// listener's caller-visible state.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/timeouts"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/alert"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/enrich"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/stream"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache"
)

// ErrAlreadyStarted indicates Start was called on a running listener.
var ErrAlreadyStarted = errors.New("listener already started")

// Config holds the listener collaborators.
type Config struct {
	ViewerID   string
	Transport  stream.Transport
	Refs       *refcache.Accessor
	Dispatcher *enrich.Dispatcher
	Emitter    *alert.Emitter
}

// Listener keeps the enriched notification and chat lists for one viewer.
//
// Every callback carries the generation it was subscribed under; results
// from an older generation are discarded, so nothing changes once Stop
// returns.
type Listener struct {
	viewerID   string
	transport  stream.Transport
	refs       *refcache.Accessor
	dispatcher *enrich.Dispatcher
	emitter    *alert.Emitter

	mu            sync.Mutex
	generation    uint64
	running       bool
	base          context.Context
	subs          []*stream.Subscription
	notifications domain.NotificationFeed
	chats         domain.ChatFeed
}

// New builds a listener.
func New(cfg Config) (*Listener, error) {
	viewerID := strings.TrimSpace(cfg.ViewerID)
	if viewerID == "" {
		return nil, errors.New("viewer id is required")
	}
	if cfg.Transport == nil {
		return nil, errors.New("stream transport is required")
	}
	if cfg.Dispatcher == nil {
		return nil, errors.New("enrichment dispatcher is required")
	}
	if cfg.Emitter == nil {
		cfg.Emitter = alert.NewEmitter(nil)
	}
	return &Listener{
		viewerID:   viewerID,
		transport:  cfg.Transport,
		refs:       cfg.Refs,
		dispatcher: cfg.Dispatcher,
		emitter:    cfg.Emitter,
	}, nil
}

// Start warms the reference cache and subscribes to the viewer's
// notifications and chats. The subscriptions live until Stop or until ctx
// ends.
func (l *Listener) Start(ctx context.Context) error {
	return l.start(ctx, ctx)
}

// Restart drops the current subscriptions and subscribes again, clearing a
// stream error left by a failed transport. The new subscriptions live under
// the context of the first Start, so a short request context only bounds
// the cache warm-up.
func (l *Listener) Restart(ctx context.Context) error {
	l.mu.Lock()
	base := l.base
	l.mu.Unlock()
	if base == nil {
		base = context.WithoutCancel(ctx)
	}
	l.Stop()
	if err := l.start(ctx, base); err != nil {
		return err
	}
	log.Printf("listener restarted for viewer %s", l.viewerID)
	return nil
}

func (l *Listener) start(ctx context.Context, subCtx context.Context) error {
	if l.isRunning() {
		return ErrAlreadyStarted
	}
	l.warmUp(ctx)

	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	l.generation++
	gen := l.generation
	l.running = true
	if l.base == nil {
		l.base = subCtx
	}
	l.notifications = domain.NotificationFeed{Loading: true}
	l.chats = domain.ChatFeed{Loading: true}
	l.mu.Unlock()

	notifications, err := stream.Subscribe(subCtx, l.transport, domain.CollectionNotifications, stream.Receiver(l.viewerID), stream.Handlers{
		OnBatch: func(batch []domain.ChangeRecord) { l.applyNotifications(subCtx, gen, batch) },
		OnError: func(err error) { l.failNotifications(gen, err) },
	})
	if err != nil {
		l.Stop()
		return fmt.Errorf("subscribe notifications: %w", err)
	}
	if !l.track(gen, notifications) {
		return nil
	}

	chats, err := stream.Subscribe(subCtx, l.transport, domain.CollectionChats, stream.SenderOrReceiver(l.viewerID), stream.Handlers{
		OnBatch: func(batch []domain.ChangeRecord) { l.applyChats(subCtx, gen, batch) },
		OnError: func(err error) { l.failChats(gen, err) },
	})
	if err != nil {
		l.Stop()
		return fmt.Errorf("subscribe chats: %w", err)
	}
	l.track(gen, chats)
	log.Printf("listener started for viewer %s", l.viewerID)
	return nil
}

// Stop cancels both subscriptions. No state change or alert happens after
// it returns, even for batches already buffered by the transport.
func (l *Listener) Stop() {
	l.mu.Lock()
	l.generation++
	l.running = false
	subs := l.subs
	l.subs = nil
	l.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

// Notifications returns the current notification feed.
func (l *Listener) Notifications() domain.NotificationFeed {
	l.mu.Lock()
	defer l.mu.Unlock()
	feed := l.notifications
	feed.Items = append([]domain.Notification(nil), feed.Items...)
	return feed
}

// Chats returns the current chat feed.
func (l *Listener) Chats() domain.ChatFeed {
	l.mu.Lock()
	defer l.mu.Unlock()
	feed := l.chats
	feed.Items = append([]domain.Chat(nil), feed.Items...)
	return feed
}

func (l *Listener) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// warmUp performs the bounded initial cache read that precedes the first
// batch.
func (l *Listener) warmUp(ctx context.Context) {
	if l.refs == nil {
		return
	}
	warmCtx, cancel := context.WithTimeout(ctx, timeouts.CacheRead)
	defer cancel()
	users := l.refs.Users(warmCtx)
	if err := warmCtx.Err(); err != nil {
		log.Printf("listener: cache warm-up: %v", err)
		return
	}
	log.Printf("listener: cache warm-up read %d users", len(users))
}

// track records sub under gen, cancelling it when Stop already ran.
func (l *Listener) track(gen uint64, sub *stream.Subscription) bool {
	l.mu.Lock()
	if gen == l.generation {
		l.subs = append(l.subs, sub)
		l.mu.Unlock()
		return true
	}
	l.mu.Unlock()
	sub.Cancel()
	return false
}

func (l *Listener) applyNotifications(ctx context.Context, gen uint64, batch []domain.ChangeRecord) {
	enriched := l.dispatcher.Notifications(ctx, batch)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return
	}
	l.notifications = domain.NotificationFeed{Items: enriched}
	if err := l.emitter.EmitLatest(ctx, enriched); err != nil {
		log.Printf("listener: emit alert: %v", err)
	}
}

func (l *Listener) applyChats(ctx context.Context, gen uint64, batch []domain.ChangeRecord) {
	enriched := l.dispatcher.Chats(ctx, l.viewerID, batch)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return
	}
	l.chats = domain.ChatFeed{Items: enriched}
}

func (l *Listener) failNotifications(gen uint64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return
	}
	log.Printf("listener: notifications stream: %v", err)
	l.notifications.Loading = false
	l.notifications.Error = err.Error()
}

func (l *Listener) failChats(gen uint64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		return
	}
	log.Printf("listener: chats stream: %v", err)
	l.chats.Loading = false
	l.chats.Error = err.Error()
}
