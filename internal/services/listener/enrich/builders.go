package enrich

import (
	"context"
	"strings"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/render"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache"
)

const collectionBroadcasts = "broadcasts"

// builder assembles one kind's notification. It reports false when a value
// its content depends on cannot be resolved; missing joins are otherwise left
// nil for the completeness check.
type builder func(ctx context.Context, d *Dispatcher, kind domain.Kind, record domain.ChangeRecord, stamp domain.Stamp) (domain.Notification, bool)

var builders = map[domain.Kind]builder{
	domain.KindServiceAvailed:        buildServiceNotification,
	domain.KindServiceAccepted:       buildServiceNotification,
	domain.KindServiceCancelled:      buildServiceNotification,
	domain.KindServiceCompleted:      buildServiceNotification,
	domain.KindOrderPlaced:           buildOrderNotification,
	domain.KindOrderConfirmed:        buildOrderNotification,
	domain.KindOrderCancelled:        buildOrderNotification,
	domain.KindOrderDelivered:        buildOrderNotification,
	domain.KindSubscriptionRequested: buildSubscriptionNotification,
	domain.KindSubscriptionAccepted:  buildOrderNotification,
	domain.KindAdminBroadcast:        buildAdminBroadcast,
	domain.KindListingRejected:       buildListingRejected,
}

func buildServiceNotification(ctx context.Context, d *Dispatcher, kind domain.Kind, record domain.ChangeRecord, stamp domain.Stamp) (domain.Notification, bool) {
	order, orderOK := d.refs.Order(ctx, record.OrderID)
	serviceID := record.ServiceID
	if serviceID == "" && orderOK {
		serviceID = order.ServiceID
	}
	service, ok := d.refs.Service(ctx, serviceID)
	if !ok {
		return domain.Notification{}, false
	}
	actor, ok := d.refs.User(ctx, record.Sender)
	if !ok {
		return domain.Notification{}, false
	}

	content, ok := render.Render(d.loc, kind, actor.DisplayName(), service.Title)
	if !ok {
		return domain.Notification{}, false
	}
	return assemble(record, kind, stamp, content,
		&domain.Item{Collection: refcache.CollectionServices, ID: service.ID, Title: service.Title, Description: service.Description},
		&actor, orderPtr(order, orderOK)), true
}

func buildOrderNotification(ctx context.Context, d *Dispatcher, kind domain.Kind, record domain.ChangeRecord, stamp domain.Stamp) (domain.Notification, bool) {
	order, orderOK := d.refs.Order(ctx, record.OrderID)
	product, ok := d.resolveProduct(ctx, record, order, orderOK)
	if !ok {
		return domain.Notification{}, false
	}
	actor, ok := d.refs.User(ctx, record.Sender)
	if !ok {
		return domain.Notification{}, false
	}

	content, ok := render.Render(d.loc, kind, actor.DisplayName(), product.Title)
	if !ok {
		return domain.Notification{}, false
	}
	return assemble(record, kind, stamp, content, productItem(product), &actor, orderPtr(order, orderOK)), true
}

func buildSubscriptionNotification(ctx context.Context, d *Dispatcher, kind domain.Kind, record domain.ChangeRecord, stamp domain.Stamp) (domain.Notification, bool) {
	order, ok := d.refs.Order(ctx, record.OrderID)
	if !ok || !order.IsSubscription || order.SubscriptionPeriod < 0 {
		return domain.Notification{}, false
	}
	product, ok := d.resolveProduct(ctx, record, order, true)
	if !ok {
		return domain.Notification{}, false
	}
	actor, ok := d.refs.User(ctx, record.Sender)
	if !ok {
		return domain.Notification{}, false
	}

	// The subscription window includes both its first and last day.
	days := order.SubscriptionPeriod + 1
	content, ok := render.Render(d.loc, kind, actor.DisplayName(), days, product.Title)
	if !ok {
		return domain.Notification{}, false
	}
	return assemble(record, kind, stamp, content, productItem(product), &actor, &order), true
}

func buildAdminBroadcast(_ context.Context, d *Dispatcher, kind domain.Kind, record domain.ChangeRecord, stamp domain.Stamp) (domain.Notification, bool) {
	body := strings.TrimSpace(record.Message)
	if body == "" {
		return domain.Notification{}, false
	}
	content, ok := render.Render(d.loc, kind, body)
	if !ok {
		return domain.Notification{}, false
	}
	if title := strings.TrimSpace(record.Title); title != "" {
		content.Title = title
	}
	return assemble(record, kind, stamp, content,
		&domain.Item{Collection: collectionBroadcasts, ID: record.ID, Title: content.Title, Description: body},
		nil, nil), true
}

func buildListingRejected(ctx context.Context, d *Dispatcher, kind domain.Kind, record domain.ChangeRecord, stamp domain.Stamp) (domain.Notification, bool) {
	listingType, listingID := rejectedListingRef(record)
	listing, ok := d.refs.Listing(ctx, listingType, listingID)
	if !ok || strings.TrimSpace(listing.Title) == "" {
		return domain.Notification{}, false
	}

	content := render.Copy{}
	title, titleOK := render.RenderKey(d.loc, "notification.listing_rejected.title")
	var body string
	var bodyOK bool
	if reason := strings.TrimSpace(record.Reason); reason != "" {
		body, bodyOK = render.RenderKey(d.loc, "notification.listing_rejected.body", listing.Title, reason)
	} else {
		body, bodyOK = render.RenderKey(d.loc, "notification.listing_rejected.body_no_reason", listing.Title)
	}
	if !titleOK || !bodyOK {
		return domain.Notification{}, false
	}
	content.Title, content.Message = title, body

	var actor *refcache.User
	if user, found := d.refs.User(ctx, record.Sender); found {
		actor = &user
	}
	return assemble(record, kind, stamp, content,
		&domain.Item{Collection: listing.Collection, ID: listing.ID, Title: listing.Title, Description: listing.Description},
		actor, nil), true
}

// resolveProduct prefers the record's product reference and falls back to
// the order's.
func (d *Dispatcher) resolveProduct(ctx context.Context, record domain.ChangeRecord, order refcache.Order, orderOK bool) (refcache.Product, bool) {
	productID := record.ProductID
	if productID == "" && orderOK {
		productID = order.ProductID
	}
	return d.refs.Product(ctx, productID)
}

// rejectedListingRef returns the listing collection and id of a rejection,
// inferring the collection from whichever typed reference is set.
func rejectedListingRef(record domain.ChangeRecord) (string, string) {
	if record.ListingType != "" && record.ListingID != "" {
		return record.ListingType, record.ListingID
	}
	switch {
	case record.ProductID != "":
		return refcache.CollectionProducts, record.ProductID
	case record.ServiceID != "":
		return refcache.CollectionServices, record.ServiceID
	case record.LivestockID != "":
		return refcache.CollectionLivestock, record.LivestockID
	default:
		return record.ListingType, record.ListingID
	}
}

func assemble(record domain.ChangeRecord, kind domain.Kind, stamp domain.Stamp, content render.Copy, details *domain.Item, user *refcache.User, order *refcache.Order) domain.Notification {
	return domain.Notification{
		ID:   record.ID,
		Kind: kind,
		Info: &domain.Info{
			Title:     content.Title,
			Message:   content.Message,
			CreatedAt: stamp,
		},
		Details: details,
		User:    user,
		Order:   order,
	}
}

func productItem(product refcache.Product) *domain.Item {
	return &domain.Item{
		Collection:  refcache.CollectionProducts,
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
	}
}

func orderPtr(order refcache.Order, ok bool) *refcache.Order {
	if !ok {
		return nil
	}
	return &order
}
