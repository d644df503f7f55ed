package stream

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
)

// ErrInvalidFilter indicates a filter that cannot be sent to the remote store.
var ErrInvalidFilter = errors.New("invalid stream filter")

// Op is a predicate operator understood by the remote store.
type Op string

const (
	OpEqual    Op = "=="
	OpContains Op = "array-contains"
)

// Clause is one field predicate.
type Clause struct {
	Field string `json:"field"`
	Op    Op     `json:"op"`
	Value string `json:"value"`
}

// Filter is a conjunction of clauses, or a disjunction when Any is set.
type Filter struct {
	Clauses []Clause `json:"clauses"`
	Any     bool     `json:"any,omitempty"`
}

// SenderOrReceiver matches records the viewer sent or received.
func SenderOrReceiver(viewer string) Filter {
	viewer = strings.TrimSpace(viewer)
	return Filter{
		Clauses: []Clause{
			{Field: "sender", Op: OpEqual, Value: viewer},
			{Field: "receiver", Op: OpEqual, Value: viewer},
		},
		Any: true,
	}
}

// Receiver matches records addressed to the viewer.
func Receiver(viewer string) Filter {
	return Filter{Clauses: []Clause{{Field: "receiver", Op: OpEqual, Value: strings.TrimSpace(viewer)}}}
}

// CreatorWithStatus matches records created by the viewer in one status.
func CreatorWithStatus(viewer string, status string) Filter {
	return Filter{Clauses: []Clause{
		{Field: "createdBy", Op: OpEqual, Value: strings.TrimSpace(viewer)},
		{Field: "status", Op: OpEqual, Value: strings.TrimSpace(status)},
	}}
}

// Contains matches records whose array field includes the viewer.
func Contains(field string, viewer string) Filter {
	return Filter{Clauses: []Clause{{Field: strings.TrimSpace(field), Op: OpContains, Value: strings.TrimSpace(viewer)}}}
}

// Validate rejects filters with no clauses, blank values or fields the
// records do not carry.
func (f Filter) Validate() error {
	if len(f.Clauses) == 0 {
		return fmt.Errorf("%w: no clauses", ErrInvalidFilter)
	}
	var probe domain.ChangeRecord
	for _, clause := range f.Clauses {
		if clause.Value == "" {
			return fmt.Errorf("%w: %s requires a value", ErrInvalidFilter, clause.Field)
		}
		var known bool
		switch clause.Op {
		case OpEqual:
			_, known = probe.Field(clause.Field)
		case OpContains:
			_, known = probe.ArrayField(clause.Field)
		default:
			return fmt.Errorf("%w: unsupported operator %q", ErrInvalidFilter, clause.Op)
		}
		if !known {
			return fmt.Errorf("%w: unsupported field %q", ErrInvalidFilter, clause.Field)
		}
	}
	return nil
}

// Match evaluates the filter against one record.
func (f Filter) Match(record domain.ChangeRecord) bool {
	if len(f.Clauses) == 0 {
		return false
	}
	for _, clause := range f.Clauses {
		matched := clause.match(record)
		if f.Any && matched {
			return true
		}
		if !f.Any && !matched {
			return false
		}
	}
	return !f.Any
}

func (c Clause) match(record domain.ChangeRecord) bool {
	switch c.Op {
	case OpEqual:
		value, ok := record.Field(c.Field)
		return ok && value == c.Value
	case OpContains:
		values, ok := record.ArrayField(c.Field)
		return ok && slices.Contains(values, c.Value)
	default:
		return false
	}
}
