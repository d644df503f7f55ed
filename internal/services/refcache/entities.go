package refcache

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/shared/timestamp"
)

// User roles as stored on cached user snapshots.
const (
	RoleDairyFarmer  = "DAIRY_FARMER"
	RoleConsumer     = "CONSUMER"
	RoleVeterinarian = "DVM"
	RoleAdmin        = "ADMIN"
)

// User is a cached account snapshot of any role.
type User struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	FullName     string `json:"fullname"`
	Username     string `json:"username"`
	Phone        string `json:"phone,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// DisplayName returns the name used in generated copy.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(u.Username)
}

// Product is a cached dairy product listing.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit,omitempty"`
	OwnerID     string          `json:"createdBy"`
}

// Service is a cached veterinary service listing.
type Service struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Charges     decimal.Decimal `json:"charges"`
	OwnerID     string          `json:"createdBy"`
}

// Livestock is a cached livestock listing.
type Livestock struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Breed       string          `json:"breed,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	OwnerID     string          `json:"createdBy"`
}

// Order is a cached product or service order.
type Order struct {
	ID                 string               `json:"id"`
	ProductID          string               `json:"productId,omitempty"`
	ServiceID          string               `json:"serviceId,omitempty"`
	PlacedBy           string               `json:"placedBy"`
	OwnerID            string               `json:"owner"`
	Status             string               `json:"status"`
	IsSingleOrder      bool                 `json:"isSingleOrder"`
	IsSubscription     bool                 `json:"isSubscription"`
	ConfirmedOn        *timestamp.Timestamp `json:"confirmedOn,omitempty"`
	SubscriptionPeriod int                  `json:"subscriptionPeriod,omitempty"`
	DailyStatus        []string             `json:"dailyStatus,omitempty"`
	Quantity           int                  `json:"quantity"`
}

// Listing is the common shape of a product, service or livestock entry.
type Listing struct {
	Collection  string
	ID          string
	Title       string
	Description string
}
