// Package domain projects confirmed orders onto calendar days.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache"
)

// Persisted order and per-day statuses.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// ErrInvalidOrder indicates an order that violates the schedule shape.
var ErrInvalidOrder = errors.New("invalid schedule order")

// Order is a confirmed order joined to its product and parties.
type Order struct {
	ID                 string           `json:"id"`
	IsSingleOrder      bool             `json:"isSingleOrder"`
	IsSubscription     bool             `json:"isSubscription"`
	ConfirmedOn        Date             `json:"confirmedOn"`
	SubscriptionPeriod int              `json:"subscriptionPeriod,omitempty"`
	DailyStatus        []string         `json:"dailyStatus,omitempty"`
	Status             string           `json:"status"`
	Quantity           int              `json:"quantity"`
	Product            refcache.Product `json:"product"`
	PlacedBy           refcache.User    `json:"placedBy"`
	Owner              refcache.User    `json:"owner"`
}

// CheckShape reports the first structural violation of o. An order that
// fails it cannot be placed on any day.
func (o Order) CheckShape() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidOrder)
	}
	if o.IsSingleOrder == o.IsSubscription {
		return fmt.Errorf("%w: %s must be exactly one of single order or subscription", ErrInvalidOrder, o.ID)
	}
	if o.ConfirmedOn.IsZero() {
		return fmt.Errorf("%w: %s has no confirmation date", ErrInvalidOrder, o.ID)
	}
	if !o.IsSubscription {
		return nil
	}
	if o.SubscriptionPeriod < 0 {
		return fmt.Errorf("%w: %s has a negative subscription period", ErrInvalidOrder, o.ID)
	}
	return nil
}

// Validate reports the first violation of o, including a daily status list
// that does not cover every day of the subscription.
func (o Order) Validate() error {
	if err := o.CheckShape(); err != nil {
		return err
	}
	if o.IsSubscription && len(o.DailyStatus) != o.SubscriptionPeriod+1 {
		return fmt.Errorf("%w: %s has %d daily statuses for a %d-day period", ErrInvalidOrder, o.ID, len(o.DailyStatus), o.SubscriptionPeriod)
	}
	return nil
}

// LastDay returns the final calendar day the order covers.
func (o Order) LastDay() Date {
	if !o.IsSubscription {
		return o.ConfirmedOn
	}
	return o.ConfirmedOn.AddDays(o.SubscriptionPeriod)
}

// Total returns quantity times the product price.
func (o Order) Total() decimal.Decimal {
	return o.Product.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

func statusIs(raw string, status string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), status)
}
