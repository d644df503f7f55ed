// Package httpapi exposes the listener views and schedule navigation over
// HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
	scheduleapp "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/schedule/app"
	scheduledomain "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/schedule/domain"
)

// Feeds supplies the current enriched lists. Restart re-subscribes both
// streams, which is how a caller recovers from a stream error.
type Feeds interface {
	Notifications() domain.NotificationFeed
	Chats() domain.ChatFeed
	Restart(ctx context.Context) error
}

// Schedule is the day navigator driven by the schedule routes.
type Schedule interface {
	Activate(ctx context.Context) (scheduleapp.View, error)
	Current() (scheduleapp.View, error)
	Next() (scheduleapp.View, error)
	Previous() (scheduleapp.View, error)
	Goto(display string) (scheduleapp.View, error)
}

type handler struct {
	feeds    Feeds
	schedule Schedule
}

// NewHandler builds the router. A nil schedule disables the schedule routes.
func NewHandler(feeds Feeds, schedule Schedule) http.Handler {
	h := handler{feeds: feeds, schedule: schedule}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/up", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/notifications", h.handleNotifications)
		r.Get("/chats", h.handleChats)
		r.Post("/subscriptions/restart", h.handleRestart)
		if schedule != nil {
			r.Get("/schedule", h.handleSchedule)
			r.Post("/schedule/activate", h.handleScheduleActivate)
			r.Post("/schedule/next", h.handleScheduleNext)
			r.Post("/schedule/previous", h.handleSchedulePrevious)
			r.Post("/schedule/goto", h.handleScheduleGoto)
		}
	})
	return r
}

func (h handler) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.feeds.Notifications())
}

func (h handler) handleChats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.feeds.Chats())
}

func (h handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := h.feeds.Restart(r.Context()); err != nil {
		log.Printf("restart subscriptions: %v", err)
		writeError(w, http.StatusBadGateway, "subscriptions could not be restarted")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": h.feeds.Notifications(),
		"chats":         h.feeds.Chats(),
	})
}

func (h handler) handleScheduleActivate(w http.ResponseWriter, r *http.Request) {
	writeView(w)(h.schedule.Activate(r.Context()))
}

func (h handler) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	writeView(w)(h.schedule.Current())
}

func (h handler) handleScheduleNext(w http.ResponseWriter, _ *http.Request) {
	writeView(w)(h.schedule.Next())
}

func (h handler) handleSchedulePrevious(w http.ResponseWriter, _ *http.Request) {
	writeView(w)(h.schedule.Previous())
}

func (h handler) handleScheduleGoto(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	writeView(w)(h.schedule.Goto(date))
}

func writeView(w http.ResponseWriter) func(scheduleapp.View, error) {
	return func(view scheduleapp.View, err error) {
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, view)
		case errors.Is(err, scheduledomain.ErrInvalidDate):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, scheduleapp.ErrNotActive):
			writeError(w, http.StatusServiceUnavailable, "schedule is not loaded")
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "schedule load timed out")
		default:
			log.Printf("schedule request: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encode response: %v", err)
	}
}
