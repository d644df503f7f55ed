// Package refcache exposes typed, read-only access to the locally persisted
// reference collections that change records are joined against.
package refcache

import (
	"context"
	"errors"
)

// ErrNotFound indicates a requested reference entity is absent.
var ErrNotFound = errors.New("reference entity not found")

// ErrCorrupt indicates a cached payload could not be decoded.
var ErrCorrupt = errors.New("reference entity payload is corrupt")

// Collection names for cached reference data. Users are cached per role and
// merged on read.
const (
	CollectionDairyFarmers  = "dairyFarmers"
	CollectionConsumers     = "consumers"
	CollectionVeterinarians = "veterinarians"
	CollectionAdmins        = "admins"
	CollectionProducts      = "products"
	CollectionServices      = "services"
	CollectionLivestock     = "livestock"
	CollectionOrders        = "orders"
)

// UserCollections lists the per-role user collections in lookup order.
var UserCollections = []string{
	CollectionDairyFarmers,
	CollectionConsumers,
	CollectionVeterinarians,
	CollectionAdmins,
}

// Entity is one cached, denormalized snapshot keyed by collection and id.
type Entity struct {
	Collection string
	ID         string
	Payload    []byte
}

// Reader is the read contract of the reference cache. Get returns
// ErrNotFound for absent entities; GetAll returns an empty slice for an
// absent or empty collection.
type Reader interface {
	Get(ctx context.Context, collection string, id string) (Entity, error)
	GetAll(ctx context.Context, collection string) ([]Entity, error)
}

// Store adds the out-of-band write side used by cache synchronisation.
type Store interface {
	Reader
	Put(ctx context.Context, entity Entity) error
	Invalidate(ctx context.Context, collection string, id string) error
}
