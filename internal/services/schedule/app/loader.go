package app

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/schedule/domain"
)

// OrderLoader fetches the confirmed, joined orders visible to a viewer.
type OrderLoader interface {
	LoadOrders(ctx context.Context, viewerID string) ([]domain.Order, error)
}

// CacheOrderLoader builds schedule orders from the reference cache.
type CacheOrderLoader struct {
	refs *refcache.Accessor
	loc  *time.Location
}

// NewCacheOrderLoader reads through refs and assigns confirmation days in
// loc (time.Local when nil).
func NewCacheOrderLoader(refs *refcache.Accessor, loc *time.Location) *CacheOrderLoader {
	if loc == nil {
		loc = time.Local
	}
	return &CacheOrderLoader{refs: refs, loc: loc}
}

// LoadOrders returns the viewer's confirmed product orders, joined to their
// product and both parties, sorted by confirmation day then id. Orders that
// cannot be joined or are structurally invalid are skipped. A subscription
// with too few daily statuses is kept and shows N/A past its last status.
func (l *CacheOrderLoader) LoadOrders(ctx context.Context, viewerID string) ([]domain.Order, error) {
	viewerID = strings.TrimSpace(viewerID)
	var orders []domain.Order
	for _, cached := range l.refs.Orders(ctx) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if viewerID != "" && cached.OwnerID != viewerID && cached.PlacedBy != viewerID {
			continue
		}
		order, ok := l.join(ctx, cached)
		if !ok {
			continue
		}
		if err := order.CheckShape(); err != nil {
			log.Printf("schedule: skip order: %v", err)
			continue
		}
		if err := order.Validate(); err != nil {
			log.Printf("schedule: keep order: %v", err)
		}
		orders = append(orders, order)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].ConfirmedOn != orders[j].ConfirmedOn {
			return orders[i].ConfirmedOn.Before(orders[j].ConfirmedOn)
		}
		return orders[i].ID < orders[j].ID
	})
	return orders, nil
}

func (l *CacheOrderLoader) join(ctx context.Context, cached refcache.Order) (domain.Order, bool) {
	if !scheduled(cached.Status) {
		return domain.Order{}, false
	}
	confirmedAt, ok := cached.ConfirmedOn.Time()
	if !ok {
		return domain.Order{}, false
	}
	product, ok := l.refs.Product(ctx, cached.ProductID)
	if !ok {
		return domain.Order{}, false
	}
	placedBy, ok := l.refs.User(ctx, cached.PlacedBy)
	if !ok {
		return domain.Order{}, false
	}
	owner, ok := l.refs.User(ctx, cached.OwnerID)
	if !ok {
		return domain.Order{}, false
	}
	return domain.Order{
		ID:                 cached.ID,
		IsSingleOrder:      cached.IsSingleOrder,
		IsSubscription:     cached.IsSubscription,
		ConfirmedOn:        domain.DateOf(confirmedAt, l.loc),
		SubscriptionPeriod: cached.SubscriptionPeriod,
		DailyStatus:        append([]string(nil), cached.DailyStatus...),
		Status:             cached.Status,
		Quantity:           cached.Quantity,
		Product:            product,
		PlacedBy:           placedBy,
		Owner:              owner,
	}, true
}

// scheduled reports whether an order in status belongs on the schedule.
func scheduled(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case domain.StatusConfirmed, domain.StatusDelivered:
		return true
	default:
		return false
	}
}
