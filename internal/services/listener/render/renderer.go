// Package render produces notification copy from message catalogs.
package render

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
)

const (
	// TimeLayout formats the clock part of a creation stamp.
	TimeLayout = "03:04 PM"
	// DateLayout formats the calendar part of a creation stamp.
	DateLayout = "02-Jan-2006"
)

// Localizer is the minimal message-printer contract required by the renderer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// NewLocalizer returns a printer for tag, falling back to English for
// unparseable tags.
func NewLocalizer(tag string) *message.Printer {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		parsed = language.English
	}
	return message.NewPrinter(parsed)
}

// Copy is the rendered title and message of one notification.
type Copy struct {
	Title   string
	Message string
}

// Render returns the catalog copy for kind with args interpolated into the
// message. ok is false when either string has no catalog entry or an
// argument is blank.
func Render(loc Localizer, kind domain.Kind, args ...any) (Copy, bool) {
	for _, arg := range args {
		if value, isString := arg.(string); isString && strings.TrimSpace(value) == "" {
			return Copy{}, false
		}
	}
	token := keyToken(kind)
	title, ok := localize(loc, "notification."+token+".title")
	if !ok {
		return Copy{}, false
	}
	body, ok := localize(loc, "notification."+token+".body", args...)
	if !ok {
		return Copy{}, false
	}
	return Copy{Title: title, Message: body}, true
}

// RenderKey renders one arbitrary catalog key.
func RenderKey(loc Localizer, key string, args ...any) (string, bool) {
	return localize(loc, key, args...)
}

// Stamp formats at in zone for display.
func Stamp(at time.Time, zone *time.Location) domain.Stamp {
	if zone == nil {
		zone = time.Local
	}
	local := at.In(zone)
	return domain.Stamp{
		Time: local.Format(TimeLayout),
		Date: local.Format(DateLayout),
	}
}

func localize(loc Localizer, key string, args ...any) (string, bool) {
	if loc == nil {
		return "", false
	}
	value := strings.TrimSpace(loc.Sprintf(key, args...))
	// A printer without a catalog entry echoes the key, possibly followed by
	// fmt's extra-argument marker.
	if value == "" || strings.HasPrefix(value, key) {
		return "", false
	}
	return value, true
}

func keyToken(kind domain.Kind) string {
	return strings.ToLower(string(kind))
}
