package render

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
)

type fakeLocalizer struct {
	values map[string]string
}

func (f fakeLocalizer) Sprintf(key message.Reference, args ...any) string {
	asString, ok := key.(string)
	if !ok {
		return ""
	}
	value, ok := f.values[asString]
	if !ok {
		return asString
	}
	return fmt.Sprintf(value, args...)
}

func TestRenderEnglishCatalogCoversEveryKind(t *testing.T) {
	t.Parallel()

	loc := message.NewPrinter(language.English)
	for _, kind := range domain.Kinds {
		args := []any{"Ayesha", "Fresh Milk"}
		switch kind {
		case domain.KindSubscriptionRequested:
			args = []any{"Ayesha", 7, "Fresh Milk"}
		case domain.KindAdminBroadcast:
			args = []any{"Eid timings"}
		}
		out, ok := Render(loc, kind, args...)
		if !ok {
			t.Fatalf("expected catalog copy for %s", kind)
		}
		if out.Title == "" || out.Message == "" {
			t.Fatalf("empty copy for %s: %+v", kind, out)
		}
	}
}

func TestRenderInterpolatesArguments(t *testing.T) {
	t.Parallel()

	loc := message.NewPrinter(language.English)
	out, ok := Render(loc, domain.KindSubscriptionRequested, "Ayesha Khan", 7, "Fresh Milk")
	if !ok {
		t.Fatal("expected rendered copy")
	}
	if out.Title != "Subscription Request" {
		t.Fatalf("title = %q", out.Title)
	}
	if out.Message != `Ayesha Khan has requested a 7-day subscription for "Fresh Milk".` {
		t.Fatalf("message = %q", out.Message)
	}
}

func TestRenderRejectsBlankArgumentsAndMissingKeys(t *testing.T) {
	t.Parallel()

	loc := fakeLocalizer{values: map[string]string{
		"notification.order_placed.title": "New Order",
		"notification.order_placed.body":  "%s ordered %s",
	}}

	if _, ok := Render(loc, domain.KindOrderPlaced, "Ayesha", " "); ok {
		t.Fatal("expected blank argument to fail rendering")
	}
	if _, ok := Render(loc, domain.KindOrderConfirmed, "Ayesha", "Milk"); ok {
		t.Fatal("expected missing catalog key to fail rendering")
	}
	if _, ok := Render(nil, domain.KindOrderPlaced, "Ayesha", "Milk"); ok {
		t.Fatal("expected nil localizer to fail rendering")
	}
	out, ok := Render(loc, domain.KindOrderPlaced, "Ayesha", "Milk")
	if !ok || out.Message != "Ayesha ordered Milk" {
		t.Fatalf("Render() = (%+v, %v)", out, ok)
	}
}

func TestStampFormatsInZone(t *testing.T) {
	t.Parallel()

	karachi := time.FixedZone("PKT", 5*60*60)
	at := time.Date(2026, 10, 18, 21, 15, 0, 0, time.UTC)

	got := Stamp(at, karachi)
	if got.Time != "02:15 AM" || got.Date != "19-Oct-2026" {
		t.Fatalf("Stamp() = %+v", got)
	}
}

func TestNewLocalizerFallsBackToEnglish(t *testing.T) {
	t.Parallel()

	loc := NewLocalizer("%%not-a-tag")
	if _, ok := Render(loc, domain.KindOrderPlaced, "Ayesha", "Milk"); !ok {
		t.Fatal("expected english fallback catalog")
	}
}
