// Package timestamp models the remote store's {seconds, nanoseconds} instant.
package timestamp

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp is an instant as delivered by the remote store.
//
// A nil *Timestamp and an out-of-range value are both treated as missing.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int32 `json:"nanoseconds"`
}

// FromTime converts t into a Timestamp.
func FromTime(t time.Time) *Timestamp {
	pb := timestamppb.New(t)
	return &Timestamp{Seconds: pb.GetSeconds(), Nanoseconds: pb.GetNanos()}
}

// Proto returns the protobuf form of ts, or nil when ts is nil.
func (ts *Timestamp) Proto() *timestamppb.Timestamp {
	if ts == nil {
		return nil
	}
	return &timestamppb.Timestamp{Seconds: ts.Seconds, Nanos: ts.Nanoseconds}
}

// Valid reports whether ts is present and within the protobuf timestamp range.
func (ts *Timestamp) Valid() bool {
	if ts == nil {
		return false
	}
	return ts.Proto().CheckValid() == nil
}

// Time returns ts as a UTC time and whether it was valid.
func (ts *Timestamp) Time() (time.Time, bool) {
	if !ts.Valid() {
		return time.Time{}, false
	}
	return ts.Proto().AsTime(), true
}

// After reports whether ts is strictly later than other. Invalid values
// order before every valid value.
func (ts *Timestamp) After(other *Timestamp) bool {
	left, leftOK := ts.Time()
	right, rightOK := other.Time()
	switch {
	case leftOK && rightOK:
		return left.After(right)
	default:
		return leftOK && !rightOK
	}
}
