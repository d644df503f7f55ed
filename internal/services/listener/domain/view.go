package domain

import "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/refcache"

// Stamp is a creation instant formatted for display in the viewer's zone.
type Stamp struct {
	Time string `json:"time"`
	Date string `json:"date"`
}

// Info is the human-readable copy of a notification.
type Info struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt Stamp  `json:"createdAt"`
}

// Item is the entity a notification is about.
type Item struct {
	Collection  string `json:"collection"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Notification is an enriched notification record.
type Notification struct {
	ID      string          `json:"id"`
	Kind    Kind            `json:"kind"`
	Info    *Info           `json:"info"`
	Details *Item           `json:"details"`
	User    *refcache.User  `json:"user,omitempty"`
	Order   *refcache.Order `json:"order,omitempty"`
}

// Complete reports whether every field required by the kind is present.
func (n Notification) Complete() bool {
	if n.Info == nil || n.Details == nil {
		return false
	}
	if n.Info.Title == "" || n.Info.Message == "" || n.Info.CreatedAt.Date == "" {
		return false
	}
	if !n.Kind.RequiresJoins() {
		return true
	}
	return n.User != nil && n.Order != nil
}

// Chat is an enriched chat message.
type Chat struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	User      refcache.User `json:"user"`
	Myself    refcache.User `json:"myself"`
	Outgoing  bool          `json:"outgoing"`
	CreatedAt Stamp         `json:"createdAt"`
}

// NotificationFeed is the caller-visible notification list state.
type NotificationFeed struct {
	Items   []Notification `json:"items"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
}

// ChatFeed is the caller-visible chat list state.
type ChatFeed struct {
	Items   []Chat `json:"items"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}
