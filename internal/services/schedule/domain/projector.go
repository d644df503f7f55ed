package domain

import "github.com/shopspring/decimal"

// Status labels shown on projected entries.
const (
	LabelExpired      = "Expired"
	LabelDelivered    = "Delivered"
	LabelActive       = "Active"
	LabelNotAvailable = "N/A"
)

// Entry is an order annotated with its label and total for one day.
type Entry struct {
	Order      Order           `json:"order"`
	StatusChip string          `json:"statusChip"`
	Total      decimal.Decimal `json:"total"`
}

// Visible reports whether order appears on day.
func Visible(order Order, day Date) bool {
	switch {
	case order.IsSingleOrder:
		return day == order.ConfirmedOn
	case order.IsSubscription:
		return !day.Before(order.ConfirmedOn) && !day.After(order.LastDay())
	default:
		return false
	}
}

// StatusLabel returns the label of order on day, judged against the wall
// clock day today.
func StatusLabel(order Order, day Date, today Date) string {
	if order.IsSubscription {
		return subscriptionLabel(order, day, today)
	}
	switch {
	case order.ConfirmedOn.Before(today) && statusIs(order.Status, StatusConfirmed):
		return LabelExpired
	case statusIs(order.Status, StatusDelivered):
		return LabelDelivered
	default:
		return order.Status
	}
}

// subscriptionLabel reads the current persisted daily status even for past
// days.
func subscriptionLabel(order Order, day Date, today Date) string {
	index := DaysBetween(order.ConfirmedOn, day)
	if index < 0 || index >= len(order.DailyStatus) {
		return LabelNotAvailable
	}
	status := order.DailyStatus[index]
	delivered := statusIs(status, StatusDelivered)
	switch {
	case day.Before(today.AddDays(-1)) && !delivered:
		return LabelExpired
	case day == today && delivered:
		return LabelDelivered
	case day == today:
		return LabelActive
	default:
		return status
	}
}

// Project returns the orders visible on day with their labels, in input
// order.
func Project(orders []Order, day Date, today Date) []Entry {
	entries := make([]Entry, 0, len(orders))
	for _, order := range orders {
		if !Visible(order, day) {
			continue
		}
		entries = append(entries, Entry{
			Order:      order,
			StatusChip: StatusLabel(order, day, today),
			Total:      order.Total(),
		})
	}
	return entries
}
