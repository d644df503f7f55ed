package domain

import (
	"testing"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/shared/timestamp"
)

func TestSortNewestFirst(t *testing.T) {
	t.Parallel()

	records := []ChangeRecord{
		{ID: "old", Timestamp: &timestamp.Timestamp{Seconds: 100}},
		{ID: "broken", Timestamp: &timestamp.Timestamp{Seconds: 500, Nanoseconds: -1}},
		{ID: "new", Timestamp: &timestamp.Timestamp{Seconds: 300}},
		{ID: "missing"},
		{ID: "mid", Timestamp: &timestamp.Timestamp{Seconds: 200}},
		{ID: "mid-tie", Timestamp: &timestamp.Timestamp{Seconds: 200}},
	}

	SortNewestFirst(records)

	want := []string{"new", "mid", "mid-tie", "old", "broken", "missing"}
	for i, id := range want {
		if records[i].ID != id {
			t.Fatalf("records[%d] = %q, want %q (order %v)", i, records[i].ID, id, ids(records))
		}
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   Kind
		wantOK bool
	}{
		{raw: "ORDER_PLACED", want: KindOrderPlaced, wantOK: true},
		{raw: " service-availed ", want: KindServiceAvailed, wantOK: true},
		{raw: "admin_broadcast", want: KindAdminBroadcast, wantOK: true},
		{raw: "ORDER_TELEPORTED", wantOK: false},
		{raw: "", wantOK: false},
	}
	for _, tc := range tests {
		got, ok := ParseKind(tc.raw)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ParseKind(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNotificationCompleteHonoursExemptKinds(t *testing.T) {
	t.Parallel()

	info := &Info{Title: "t", Message: "m", CreatedAt: Stamp{Time: "09:00 AM", Date: "19-Oct-2026"}}
	details := &Item{ID: "x", Title: "x"}

	if !(Notification{Kind: KindAdminBroadcast, Info: info, Details: details}).Complete() {
		t.Fatal("expected broadcast without user/order to be complete")
	}
	if !(Notification{Kind: KindListingRejected, Info: info, Details: details}).Complete() {
		t.Fatal("expected rejection without user/order to be complete")
	}
	if (Notification{Kind: KindOrderPlaced, Info: info, Details: details}).Complete() {
		t.Fatal("expected order notification without user/order to be incomplete")
	}
	if (Notification{Kind: KindAdminBroadcast, Info: info}).Complete() {
		t.Fatal("expected missing details to be incomplete")
	}
	if (Notification{Kind: KindAdminBroadcast, Info: &Info{Title: "t"}, Details: details}).Complete() {
		t.Fatal("expected blank message to be incomplete")
	}
}

func TestChangeRecordFields(t *testing.T) {
	t.Parallel()

	record := ChangeRecord{Receiver: "u-1", Participants: []string{"u-1", "u-2"}}
	if value, ok := record.Field("receiver"); !ok || value != "u-1" {
		t.Fatalf("Field(receiver) = (%q, %v)", value, ok)
	}
	if _, ok := record.Field("unknown"); ok {
		t.Fatal("expected unknown field to be unsupported")
	}
	if values, ok := record.ArrayField("participants"); !ok || len(values) != 2 {
		t.Fatalf("ArrayField(participants) = (%v, %v)", values, ok)
	}
}

func ids(records []ChangeRecord) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.ID)
	}
	return out
}
