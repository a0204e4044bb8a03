package transaction

import (
	"strings"
	"time"
)

// Filter is an AND of optional constraints. Zero-valued fields impose nothing.
// Date bounds are inclusive and compared by calendar day.
type Filter struct {
	DescriptionContains string
	DateFrom            *time.Time
	DateTo              *time.Time
	Kind                *Kind
}

func (f Filter) WithKind(k Kind) Filter {
	f.Kind = &k
	return f
}

func (f Filter) WithDateFrom(t time.Time) Filter {
	d := Day(t)
	f.DateFrom = &d
	return f
}

func (f Filter) WithDateTo(t time.Time) Filter {
	d := Day(t)
	f.DateTo = &d
	return f
}

func (f Filter) WithDescription(s string) Filter {
	f.DescriptionContains = s
	return f
}

// Matches is the reference semantics every store has to reproduce.
func (f Filter) Matches(tx Transaction) bool {
	if f.DescriptionContains != "" &&
		!strings.Contains(strings.ToLower(tx.Description), strings.ToLower(f.DescriptionContains)) {
		return false
	}
	day := Day(tx.OccurredOn)
	if f.DateFrom != nil && day.Before(Day(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && day.After(Day(*f.DateTo)) {
		return false
	}
	if f.Kind != nil && tx.Kind != *f.Kind {
		return false
	}
	return true
}
