package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache"
	scheduleapp "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/schedule/app"
	scheduledomain "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/schedule/domain"
)

type fakeFeeds struct {
	notifications domain.NotificationFeed
	chats         domain.ChatFeed
}

func (f fakeFeeds) Notifications() domain.NotificationFeed { return f.notifications }
func (f fakeFeeds) Chats() domain.ChatFeed                 { return f.chats }
func (f fakeFeeds) Restart(context.Context) error          { return nil }

type restartingFeeds struct {
	fakeFeeds
	err      error
	restarts int
}

func (f *restartingFeeds) Restart(context.Context) error {
	f.restarts++
	if f.err != nil {
		return f.err
	}
	f.notifications = domain.NotificationFeed{Loading: true}
	f.chats = domain.ChatFeed{Loading: true}
	return nil
}

type fakeSchedule struct {
	cursor scheduledomain.Date
	err    error
	calls  []string
}

func (s *fakeSchedule) view() (scheduleapp.View, error) {
	if s.err != nil {
		return scheduleapp.View{}, s.err
	}
	return scheduleapp.View{Cursor: s.cursor, Today: s.cursor}, nil
}

func (s *fakeSchedule) Activate(context.Context) (scheduleapp.View, error) {
	s.calls = append(s.calls, "activate")
	return s.view()
}

func (s *fakeSchedule) Current() (scheduleapp.View, error) {
	s.calls = append(s.calls, "current")
	return s.view()
}

func (s *fakeSchedule) Next() (scheduleapp.View, error) {
	s.calls = append(s.calls, "next")
	s.cursor = s.cursor.AddDays(1)
	return s.view()
}

func (s *fakeSchedule) Previous() (scheduleapp.View, error) {
	s.calls = append(s.calls, "previous")
	s.cursor = s.cursor.AddDays(-1)
	return s.view()
}

func (s *fakeSchedule) Goto(display string) (scheduleapp.View, error) {
	s.calls = append(s.calls, "goto")
	day, err := scheduledomain.ParseDisplayDate(display)
	if err != nil {
		return scheduleapp.View{}, err
	}
	s.cursor = day
	return s.view()
}

func serve(t *testing.T, h http.Handler, method string, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestUp(t *testing.T) {
	t.Parallel()

	rec := serve(t, NewHandler(fakeFeeds{}, nil), http.MethodGet, "/up")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("GET /up = %d %q", rec.Code, rec.Body.String())
	}
}

func TestNotificationsAndChats(t *testing.T) {
	t.Parallel()

	feeds := fakeFeeds{
		notifications: domain.NotificationFeed{
			Items: []domain.Notification{{ID: "n1", Kind: domain.KindAdminBroadcast, Info: &domain.Info{Title: "Announcement"}}},
		},
		chats: domain.ChatFeed{Loading: true, Error: "permission denied"},
	}
	h := NewHandler(feeds, nil)

	rec := serve(t, h, http.MethodGet, "/v1/notifications")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/notifications = %d", rec.Code)
	}
	var notifications domain.NotificationFeed
	if err := json.NewDecoder(rec.Body).Decode(&notifications); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notifications.Items) != 1 || notifications.Items[0].Info.Title != "Announcement" {
		t.Fatalf("notifications = %+v", notifications)
	}

	rec = serve(t, h, http.MethodGet, "/v1/chats")
	var chats domain.ChatFeed
	if err := json.NewDecoder(rec.Body).Decode(&chats); err != nil {
		t.Fatalf("decode chats: %v", err)
	}
	if !chats.Loading || chats.Error != "permission denied" {
		t.Fatalf("chats = %+v", chats)
	}
}

func TestScheduleNavigation(t *testing.T) {
	t.Parallel()

	schedule := &fakeSchedule{cursor: scheduledomain.Date{Year: 2026, Month: time.March, Day: 2}}
	h := NewHandler(fakeFeeds{}, schedule)

	tests := []struct {
		method string
		target string
		status int
		cursor string
	}{
		{method: http.MethodPost, target: "/v1/schedule/activate", status: http.StatusOK, cursor: "02-Mar-2026"},
		{method: http.MethodGet, target: "/v1/schedule", status: http.StatusOK, cursor: "02-Mar-2026"},
		{method: http.MethodPost, target: "/v1/schedule/next", status: http.StatusOK, cursor: "03-Mar-2026"},
		{method: http.MethodPost, target: "/v1/schedule/previous", status: http.StatusOK, cursor: "02-Mar-2026"},
		{method: http.MethodPost, target: "/v1/schedule/goto?date=15-Mar-2026", status: http.StatusOK, cursor: "15-Mar-2026"},
		{method: http.MethodPost, target: "/v1/schedule/goto?date=tomorrow", status: http.StatusBadRequest},
		{method: http.MethodPost, target: "/v1/schedule/goto", status: http.StatusBadRequest},
		{method: http.MethodGet, target: "/v1/schedule/next", status: http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		rec := serve(t, h, tc.method, tc.target)
		if rec.Code != tc.status {
			t.Fatalf("%s %s = %d, want %d", tc.method, tc.target, rec.Code, tc.status)
		}
		if tc.cursor == "" {
			continue
		}
		var body struct {
			Cursor string `json:"cursor"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode %s: %v", tc.target, err)
		}
		if body.Cursor != tc.cursor {
			t.Fatalf("%s cursor = %q, want %q", tc.target, body.Cursor, tc.cursor)
		}
	}
}

func TestScheduleErrors(t *testing.T) {
	t.Parallel()

	rec := serve(t, NewHandler(fakeFeeds{}, &fakeSchedule{err: scheduleapp.ErrNotActive}), http.MethodGet, "/v1/schedule")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("inactive schedule = %d, want 503", rec.Code)
	}
	rec = serve(t, NewHandler(fakeFeeds{}, &fakeSchedule{err: errors.New("boom")}), http.MethodGet, "/v1/schedule")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("failing schedule = %d, want 500", rec.Code)
	}
	rec = serve(t, NewHandler(fakeFeeds{}, nil), http.MethodGet, "/v1/schedule")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("schedule without navigator = %d, want 404", rec.Code)
	}
}

func TestRestartSubscriptions(t *testing.T) {
	t.Parallel()

	feeds := &restartingFeeds{fakeFeeds: fakeFeeds{notifications: domain.NotificationFeed{Error: "permission denied"}}}
	h := NewHandler(feeds, nil)

	rec := serve(t, h, http.MethodPost, "/v1/subscriptions/restart")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/subscriptions/restart = %d", rec.Code)
	}
	var body struct {
		Notifications domain.NotificationFeed `json:"notifications"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode restart: %v", err)
	}
	if body.Notifications.Error != "" || !body.Notifications.Loading {
		t.Fatalf("notifications after restart = %+v", body.Notifications)
	}
	if feeds.restarts != 1 {
		t.Fatalf("restarts = %d, want 1", feeds.restarts)
	}

	feeds.err = errors.New("dial refused")
	if rec := serve(t, h, http.MethodPost, "/v1/subscriptions/restart"); rec.Code != http.StatusBadGateway {
		t.Fatalf("failing restart = %d, want 502", rec.Code)
	}
	if rec := serve(t, h, http.MethodGet, "/v1/subscriptions/restart"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET restart = %d, want 405", rec.Code)
	}
}

type stubLoader struct {
	orders []scheduledomain.Order
	err    error
}

func (l *stubLoader) LoadOrders(context.Context, string) ([]scheduledomain.Order, error) {
	return l.orders, l.err
}

func TestScheduleActivateReloadsOrders(t *testing.T) {
	t.Parallel()

	monday := scheduledomain.Date{Year: 2026, Month: time.March, Day: 2}
	loader := &stubLoader{err: errors.New("cache unavailable")}
	navigator, err := scheduleapp.NewNavigator(scheduleapp.NavigatorConfig{
		Loader:   loader,
		ViewerID: "farmer-1",
		Location: time.UTC,
		Clock:    func() time.Time { return time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new navigator: %v", err)
	}
	h := NewHandler(fakeFeeds{}, navigator)

	if rec := serve(t, h, http.MethodPost, "/v1/schedule/activate"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("failing activation = %d, want 500", rec.Code)
	}
	if rec := serve(t, h, http.MethodGet, "/v1/schedule"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("schedule before activation = %d, want 503", rec.Code)
	}

	loader.err = nil
	loader.orders = []scheduledomain.Order{{
		ID:            "single",
		IsSingleOrder: true,
		ConfirmedOn:   monday,
		Status:        scheduledomain.StatusConfirmed,
		Quantity:      2,
		Product:       refcache.Product{Title: "Fresh Milk", Price: decimal.RequireFromString("120.50")},
	}}
	rec := serve(t, h, http.MethodPost, "/v1/schedule/activate")
	if rec.Code != http.StatusOK {
		t.Fatalf("activation = %d, want 200", rec.Code)
	}
	var view struct {
		Cursor  string `json:"cursor"`
		Entries []struct {
			StatusChip string          `json:"statusChip"`
			Total      decimal.Decimal `json:"total"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode activation: %v", err)
	}
	if view.Cursor != "02-Mar-2026" || len(view.Entries) != 1 {
		t.Fatalf("view = %+v", view)
	}
	if !view.Entries[0].Total.Equal(decimal.RequireFromString("241")) {
		t.Fatalf("total = %s, want 241", view.Entries[0].Total)
	}
}
