// Package stream delivers live result sets of a remote collection to a
// single consumer.
package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
)

// ErrMissingHandler indicates a subscription without a batch handler.
var ErrMissingHandler = errors.New("batch handler is required")

// Stream yields full result sets until it fails or is closed.
type Stream interface {
	Recv(ctx context.Context) ([]domain.ChangeRecord, error)
	Close() error
}

// Transport opens live queries against the remote store.
type Transport interface {
	Open(ctx context.Context, collection string, filter Filter) (Stream, error)
}

// Handlers receive subscription events. OnBatch is required.
type Handlers struct {
	OnBatch func(batch []domain.ChangeRecord)
	OnError func(err error)
}

// Subscription is one live query. Callbacks run on a single goroutine and
// never overlap; a batch that arrives while another is being handled
// replaces any batch still pending.
type Subscription struct {
	stream   Stream
	handlers Handlers
	cancel   context.CancelFunc
	wake     chan struct{}
	done     chan struct{}

	mu         sync.Mutex
	cancelled  bool
	pending    []domain.ChangeRecord
	hasPending bool
	failure    error

	closeOnce sync.Once
}

// Subscribe opens collection filtered by filter and starts delivering
// batches sorted newest first. A transport failure is reported once through
// OnError and ends the subscription.
func Subscribe(ctx context.Context, transport Transport, collection string, filter Filter, handlers Handlers) (*Subscription, error) {
	if transport == nil {
		return nil, errors.New("stream transport is required")
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return nil, errors.New("collection is required")
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if handlers.OnBatch == nil {
		return nil, ErrMissingHandler
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)
	stream, err := transport.Open(ctx, collection, filter)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open %s stream: %w", collection, err)
	}

	sub := &Subscription{
		stream:   stream,
		handlers: handlers,
		cancel:   cancel,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go sub.pump(ctx, filter)
	go sub.consume(ctx)
	return sub, nil
}

// Cancel stops the subscription. It is idempotent, does not wait for a
// running callback, and may be called from inside one. Pending batches are
// discarded and no batch is claimed after Cancel returns; a batch the
// consumer claimed just before may still be delivered once.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.cancelled = true
	s.pending = nil
	s.hasPending = false
	s.mu.Unlock()

	s.closeOnce.Do(func() {
		s.cancel()
		_ = s.stream.Close()
	})
}

// Done is closed once the consumer goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) pump(ctx context.Context, filter Filter) {
	for {
		batch, err := s.stream.Recv(ctx)
		if err != nil {
			s.mu.Lock()
			if !s.cancelled && ctx.Err() == nil {
				s.failure = err
			}
			s.mu.Unlock()
			s.signal()
			return
		}

		snapshot := make([]domain.ChangeRecord, 0, len(batch))
		for _, record := range batch {
			if filter.Match(record) {
				snapshot = append(snapshot, record)
			}
		}
		domain.SortNewestFirst(snapshot)

		s.mu.Lock()
		if s.cancelled {
			s.mu.Unlock()
			return
		}
		s.pending = snapshot
		s.hasPending = true
		s.mu.Unlock()
		s.signal()
	}
}

func (s *Subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) consume(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		for {
			batch, ok, failure := s.take()
			if !ok {
				if failure != nil {
					s.fail(failure)
					return
				}
				break
			}
			s.handlers.OnBatch(batch)
		}

		s.mu.Lock()
		stopped := s.cancelled
		s.mu.Unlock()
		if stopped {
			return
		}
	}
}

// take claims the pending batch. It reports ok only when a batch was
// claimed while the subscription was live; a failure is returned once no
// batch is left.
func (s *Subscription) take() ([]domain.ChangeRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return nil, false, nil
	}
	if s.hasPending {
		batch := s.pending
		s.pending = nil
		s.hasPending = false
		return batch, true, nil
	}
	failure := s.failure
	s.failure = nil
	return nil, false, failure
}

func (s *Subscription) fail(err error) {
	s.mu.Lock()
	live := !s.cancelled
	s.mu.Unlock()
	if live && s.handlers.OnError != nil {
		s.handlers.OnError(err)
	}
	s.Cancel()
}
