// Package domain defines the change records consumed by the listener and
// the enriched view models it produces.
package domain

import (
	"sort"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/shared/timestamp"
)

// Collection names on the remote store.
const (
	CollectionNotifications = "notifications"
	CollectionChats         = "chats"
	CollectionOrders        = "orders"
)

// ChangeRecord is one raw document from a live remote query. Records are
// immutable once read; the next batch for a subscription replaces them.
type ChangeRecord struct {
	ID           string               `json:"id"`
	Kind         string               `json:"type,omitempty"`
	Sender       string               `json:"sender,omitempty"`
	Receiver     string               `json:"receiver,omitempty"`
	CreatedBy    string               `json:"createdBy,omitempty"`
	Status       string               `json:"status,omitempty"`
	Participants []string             `json:"participants,omitempty"`
	ServiceID    string               `json:"serviceId,omitempty"`
	ProductID    string               `json:"productId,omitempty"`
	LivestockID  string               `json:"livestockId,omitempty"`
	OrderID      string               `json:"orderId,omitempty"`
	ListingType  string               `json:"listingType,omitempty"`
	ListingID    string               `json:"listingId,omitempty"`
	Title        string               `json:"title,omitempty"`
	Message      string               `json:"message,omitempty"`
	Reason       string               `json:"reason,omitempty"`
	Timestamp    *timestamp.Timestamp `json:"timestamp,omitempty"`
}

// Field returns the string value of a named top-level field, used by
// equality predicates.
func (r ChangeRecord) Field(name string) (string, bool) {
	switch name {
	case "id":
		return r.ID, true
	case "type":
		return r.Kind, true
	case "sender":
		return r.Sender, true
	case "receiver":
		return r.Receiver, true
	case "createdBy":
		return r.CreatedBy, true
	case "status":
		return r.Status, true
	default:
		return "", false
	}
}

// ArrayField returns the values of a named array field, used by
// array-contains predicates.
func (r ChangeRecord) ArrayField(name string) ([]string, bool) {
	switch name {
	case "participants":
		return r.Participants, true
	default:
		return nil, false
	}
}

// SortNewestFirst orders records by timestamp descending in place. The sort
// is stable and records with a missing or invalid timestamp go last.
func SortNewestFirst(records []ChangeRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}
