package stream

import (
	"errors"
	"testing"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
)

func TestFilterMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		record domain.ChangeRecord
		want   bool
	}{
		{name: "sender side", filter: SenderOrReceiver("u-1"), record: domain.ChangeRecord{Sender: "u-1", Receiver: "u-2"}, want: true},
		{name: "receiver side", filter: SenderOrReceiver("u-1"), record: domain.ChangeRecord{Sender: "u-2", Receiver: "u-1"}, want: true},
		{name: "neither side", filter: SenderOrReceiver("u-1"), record: domain.ChangeRecord{Sender: "u-2", Receiver: "u-3"}, want: false},
		{name: "receiver", filter: Receiver("u-1"), record: domain.ChangeRecord{Receiver: "u-1"}, want: true},
		{name: "receiver mismatch", filter: Receiver("u-1"), record: domain.ChangeRecord{Sender: "u-1"}, want: false},
		{name: "creator with status", filter: CreatorWithStatus("u-1", "PENDING"), record: domain.ChangeRecord{CreatedBy: "u-1", Status: "PENDING"}, want: true},
		{name: "creator wrong status", filter: CreatorWithStatus("u-1", "PENDING"), record: domain.ChangeRecord{CreatedBy: "u-1", Status: "CONFIRMED"}, want: false},
		{name: "contains", filter: Contains("participants", "u-1"), record: domain.ChangeRecord{Participants: []string{"u-3", "u-1"}}, want: true},
		{name: "contains missing", filter: Contains("participants", "u-1"), record: domain.ChangeRecord{Participants: []string{"u-3"}}, want: false},
		{name: "empty filter", filter: Filter{}, record: domain.ChangeRecord{Receiver: "u-1"}, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Match(tc.record); got != tc.want {
				t.Fatalf("Match() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterValidate(t *testing.T) {
	t.Parallel()

	valid := []Filter{
		SenderOrReceiver("u-1"),
		Receiver("u-1"),
		CreatorWithStatus("u-1", "PENDING"),
		Contains("participants", "u-1"),
	}
	for _, filter := range valid {
		if err := filter.Validate(); err != nil {
			t.Fatalf("Validate(%+v) = %v", filter, err)
		}
	}

	invalid := []Filter{
		{},
		Receiver("  "),
		CreatorWithStatus("u-1", ""),
		Contains("tags", "u-1"),
		{Clauses: []Clause{{Field: "receiver", Op: "<", Value: "u-1"}}},
		{Clauses: []Clause{{Field: "shoeSize", Op: OpEqual, Value: "9"}}},
	}
	for _, filter := range invalid {
		if err := filter.Validate(); !errors.Is(err, ErrInvalidFilter) {
			t.Fatalf("Validate(%+v) = %v, want ErrInvalidFilter", filter, err)
		}
	}
}
