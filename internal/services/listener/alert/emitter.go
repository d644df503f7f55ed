// Package alert raises local alerts for newly delivered notifications.
package alert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/id"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
)

// ErrEmptyAlert indicates an alert with neither title nor body.
var ErrEmptyAlert = errors.New("alert title or body is required")

// Alert is one scheduled local alert.
type Alert struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier is the platform sink that displays alerts.
type Notifier interface {
	Schedule(ctx context.Context, alert Alert) error
	Cancel(ctx context.Context, alertID string) error
}

// Emitter keeps at most one alert scheduled at a time.
type Emitter struct {
	notifier Notifier
	newID    func() (string, error)

	mu      sync.Mutex
	current string
}

// NewEmitter builds an emitter on notifier, defaulting to LogNotifier.
func NewEmitter(notifier Notifier) *Emitter {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Emitter{notifier: notifier, newID: id.NewID}
}

// Emit cancels the previously scheduled alert and schedules a new one.
func (e *Emitter) Emit(ctx context.Context, title string, body string) error {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" && body == "" {
		return ErrEmptyAlert
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != "" {
		if err := e.notifier.Cancel(ctx, e.current); err != nil {
			log.Printf("alert: cancel %s: %v", e.current, err)
		}
		e.current = ""
	}

	alertID, err := e.newID()
	if err != nil {
		return fmt.Errorf("generate alert id: %w", err)
	}
	if err := e.notifier.Schedule(ctx, Alert{ID: alertID, Title: title, Body: body}); err != nil {
		return fmt.Errorf("schedule alert: %w", err)
	}
	e.current = alertID
	return nil
}

// EmitLatest raises an alert for the newest notification of batch. An empty
// batch emits nothing.
func (e *Emitter) EmitLatest(ctx context.Context, batch []domain.Notification) error {
	if len(batch) == 0 || batch[0].Info == nil {
		return nil
	}
	return e.Emit(ctx, batch[0].Info.Title, batch[0].Info.Message)
}

// LogNotifier writes alerts to the process log.
type LogNotifier struct{}

// Schedule logs the alert.
func (LogNotifier) Schedule(_ context.Context, alert Alert) error {
	log.Printf("alert %s: %s: %s", alert.ID, alert.Title, alert.Body)
	return nil
}

// Cancel logs the cancellation.
func (LogNotifier) Cancel(_ context.Context, alertID string) error {
	log.Printf("alert %s cancelled", alertID)
	return nil
}
