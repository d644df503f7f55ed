package refcache

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// Accessor decodes cache entities into typed snapshots. Every method is
// total: absent ids, read failures and undecodable payloads all report
// "not found" rather than an error.
type Accessor struct {
	reader Reader
}

// NewAccessor wraps reader.
func NewAccessor(reader Reader) *Accessor {
	return &Accessor{reader: reader}
}

// User resolves id against the merged per-role user collections.
func (a *Accessor) User(ctx context.Context, id string) (User, bool) {
	for _, collection := range UserCollections {
		var user User
		if a.decode(ctx, collection, id, &user) {
			if user.ID == "" {
				user.ID = strings.TrimSpace(id)
			}
			return user, true
		}
	}
	return User{}, false
}

// Users returns every cached user across roles.
func (a *Accessor) Users(ctx context.Context) []User {
	var users []User
	for _, collection := range UserCollections {
		for _, entity := range a.all(ctx, collection) {
			var user User
			if err := json.Unmarshal(entity.Payload, &user); err != nil {
				continue
			}
			if user.ID == "" {
				user.ID = entity.ID
			}
			users = append(users, user)
		}
	}
	return users
}

// Product resolves a cached product.
func (a *Accessor) Product(ctx context.Context, id string) (Product, bool) {
	var product Product
	if !a.decode(ctx, CollectionProducts, id, &product) {
		return Product{}, false
	}
	if product.ID == "" {
		product.ID = strings.TrimSpace(id)
	}
	return product, true
}

// Service resolves a cached service.
func (a *Accessor) Service(ctx context.Context, id string) (Service, bool) {
	var service Service
	if !a.decode(ctx, CollectionServices, id, &service) {
		return Service{}, false
	}
	if service.ID == "" {
		service.ID = strings.TrimSpace(id)
	}
	return service, true
}

// Livestock resolves a cached livestock listing.
func (a *Accessor) Livestock(ctx context.Context, id string) (Livestock, bool) {
	var livestock Livestock
	if !a.decode(ctx, CollectionLivestock, id, &livestock) {
		return Livestock{}, false
	}
	if livestock.ID == "" {
		livestock.ID = strings.TrimSpace(id)
	}
	return livestock, true
}

// Order resolves a cached order.
func (a *Accessor) Order(ctx context.Context, id string) (Order, bool) {
	var order Order
	if !a.decode(ctx, CollectionOrders, id, &order) {
		return Order{}, false
	}
	if order.ID == "" {
		order.ID = strings.TrimSpace(id)
	}
	return order, true
}

// Orders returns every cached order that decodes.
func (a *Accessor) Orders(ctx context.Context) []Order {
	entities := a.all(ctx, CollectionOrders)
	orders := make([]Order, 0, len(entities))
	for _, entity := range entities {
		var order Order
		if err := json.Unmarshal(entity.Payload, &order); err != nil {
			continue
		}
		if order.ID == "" {
			order.ID = entity.ID
		}
		orders = append(orders, order)
	}
	return orders
}

// Listing resolves a product, service or livestock entry by collection.
func (a *Accessor) Listing(ctx context.Context, collection string, id string) (Listing, bool) {
	switch normalizeCollection(collection) {
	case CollectionProducts:
		product, ok := a.Product(ctx, id)
		return Listing{Collection: CollectionProducts, ID: product.ID, Title: product.Title, Description: product.Description}, ok
	case CollectionServices:
		service, ok := a.Service(ctx, id)
		return Listing{Collection: CollectionServices, ID: service.ID, Title: service.Title, Description: service.Description}, ok
	case CollectionLivestock:
		livestock, ok := a.Livestock(ctx, id)
		return Listing{Collection: CollectionLivestock, ID: livestock.ID, Title: livestock.Title, Description: livestock.Description}, ok
	default:
		return Listing{}, false
	}
}

func (a *Accessor) decode(ctx context.Context, collection string, id string, target any) bool {
	if a == nil || a.reader == nil {
		return false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	entity, err := a.reader.Get(ctx, collection, id)
	if err != nil {
		return false
	}
	if payload := bytes.TrimSpace(entity.Payload); len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return false
	}
	return json.Unmarshal(entity.Payload, target) == nil
}

func (a *Accessor) all(ctx context.Context, collection string) []Entity {
	if a == nil || a.reader == nil {
		return nil
	}
	entities, err := a.reader.GetAll(ctx, collection)
	if err != nil {
		return nil
	}
	return entities
}

// normalizeCollection accepts singular listing-type tokens as well as
// collection names.
func normalizeCollection(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "product", "products":
		return CollectionProducts
	case "service", "services":
		return CollectionServices
	case "livestock":
		return CollectionLivestock
	default:
		return ""
	}
}
