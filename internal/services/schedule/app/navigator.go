// Package app drives the day-by-day schedule view.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/timeouts"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/schedule/domain"
)

// ErrNotActive indicates navigation before the first activation.
var ErrNotActive = errors.New("schedule navigator is not active")

// View is the projection for the cursor day.
type View struct {
	Cursor  domain.Date    `json:"cursor"`
	Today   domain.Date    `json:"today"`
	Entries []domain.Entry `json:"entries"`
}

// NavigatorConfig configures a Navigator.
type NavigatorConfig struct {
	Loader   OrderLoader
	ViewerID string
	Location *time.Location
	Clock    func() time.Time
}

// Navigator holds the day cursor and the order set loaded at activation.
// Moving the cursor reprojects the retained orders without reloading them.
type Navigator struct {
	loader   OrderLoader
	viewerID string
	loc      *time.Location
	clock    func() time.Time

	mu     sync.Mutex
	active bool
	orders []domain.Order
	view   View
}

// NewNavigator builds a navigator.
func NewNavigator(cfg NavigatorConfig) (*Navigator, error) {
	if cfg.Loader == nil {
		return nil, errors.New("order loader is required")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Navigator{
		loader:   cfg.Loader,
		viewerID: strings.TrimSpace(cfg.ViewerID),
		loc:      cfg.Location,
		clock:    cfg.Clock,
	}, nil
}

// Activate loads the order set and resets the cursor to today.
func (n *Navigator) Activate(ctx context.Context) (View, error) {
	loadCtx, cancel := context.WithTimeout(ctx, timeouts.CacheRead)
	defer cancel()
	orders, err := n.loader.LoadOrders(loadCtx, n.viewerID)
	if err != nil {
		return View{}, fmt.Errorf("load orders: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = orders
	n.active = true
	return n.projectLocked(n.today()), nil
}

// Next moves the cursor one day forward.
func (n *Navigator) Next() (View, error) {
	return n.shift(1)
}

// Previous moves the cursor one day back.
func (n *Navigator) Previous() (View, error) {
	return n.shift(-1)
}

// Goto moves the cursor to a DD-MMM-YYYY date.
func (n *Navigator) Goto(display string) (View, error) {
	day, err := domain.ParseDisplayDate(display)
	if err != nil {
		return View{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.active {
		return View{}, ErrNotActive
	}
	return n.projectLocked(day), nil
}

// Current returns the last projection.
func (n *Navigator) Current() (View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.active {
		return View{}, ErrNotActive
	}
	return n.view, nil
}

func (n *Navigator) shift(days int) (View, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.active {
		return View{}, ErrNotActive
	}
	return n.projectLocked(n.view.Cursor.AddDays(days)), nil
}

// projectLocked replaces the view with the projection for cursor.
func (n *Navigator) projectLocked(cursor domain.Date) View {
	today := n.today()
	n.view = View{
		Cursor:  cursor,
		Today:   today,
		Entries: domain.Project(n.orders, cursor, today),
	}
	return n.view
}

func (n *Navigator) today() domain.Date {
	return domain.DateOf(n.clock(), n.loc)
}
