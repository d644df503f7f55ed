package domain

import "strings"

// Kind discriminates notification records. The set is closed: records with
// any other value are dropped during enrichment.
type Kind string

const (
	KindServiceAvailed        Kind = "SERVICE_AVAILED"
	KindServiceAccepted       Kind = "SERVICE_ACCEPTED"
	KindServiceCancelled      Kind = "SERVICE_CANCELLED"
	KindServiceCompleted      Kind = "SERVICE_COMPLETED"
	KindOrderPlaced           Kind = "ORDER_PLACED"
	KindOrderConfirmed        Kind = "ORDER_CONFIRMED"
	KindOrderCancelled        Kind = "ORDER_CANCELLED"
	KindOrderDelivered        Kind = "ORDER_DELIVERED"
	KindSubscriptionRequested Kind = "SUBSCRIPTION_REQUESTED"
	KindSubscriptionAccepted  Kind = "SUBSCRIPTION_ACCEPTED"
	KindAdminBroadcast        Kind = "ADMIN_BROADCAST"
	KindListingRejected       Kind = "LISTING_REJECTED"
)

// Kinds lists every known kind.
var Kinds = []Kind{
	KindServiceAvailed,
	KindServiceAccepted,
	KindServiceCancelled,
	KindServiceCompleted,
	KindOrderPlaced,
	KindOrderConfirmed,
	KindOrderCancelled,
	KindOrderDelivered,
	KindSubscriptionRequested,
	KindSubscriptionAccepted,
	KindAdminBroadcast,
	KindListingRejected,
}

// ParseKind normalizes a raw discriminator and reports whether it is known.
func ParseKind(raw string) (Kind, bool) {
	normalized := Kind(strings.ToUpper(strings.TrimSpace(raw)))
	normalized = Kind(strings.ReplaceAll(string(normalized), "-", "_"))
	for _, kind := range Kinds {
		if kind == normalized {
			return kind, true
		}
	}
	return "", false
}

// RequiresJoins reports whether the kind needs a resolved user and order in
// addition to details and info.
func (k Kind) RequiresJoins() bool {
	switch k {
	case KindAdminBroadcast, KindListingRejected:
		return false
	default:
		return true
	}
}
