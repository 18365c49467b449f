// Package filter compiles listing query parameters into predicates
// evaluated against the entity store. The dimension kinds form a small
// closed set; a compiled filter list is the conjunction of its
// dimensions, and dimensions that accept several values OR-combine
// them internally.
package filter

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"audiolab/apperr"
)

// Filter is one compiled dimension of a listing query.
type Filter interface {
	Apply(tx *gorm.DB) *gorm.DB
}

// Apply narrows tx by the conjunction of all given dimensions. An empty
// list leaves tx unrestricted.
func Apply(tx *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		tx = f.Apply(tx)
	}
	return tx
}

// Membership selects rows whose column equals any of the given values.
type Membership struct {
	Column string
	Values []string
}

func (f Membership) Apply(tx *gorm.DB) *gorm.DB {
	return tx.Where(f.Column+" IN ?", f.Values)
}

// Presence selects rows where a nullable column is set (true) or
// unset (false).
type Presence struct {
	Column  string
	Present bool
}

func (f Presence) Apply(tx *gorm.DB) *gorm.DB {
	if f.Present {
		return tx.Where(f.Column + " IS NOT NULL")
	}
	return tx.Where(f.Column + " IS NULL")
}

// DateRange selects rows whose column lies in [From, To] inclusive.
// A nil bound is open.
type DateRange struct {
	Column string
	From   *time.Time
	To     *time.Time
}

func (f DateRange) Apply(tx *gorm.DB) *gorm.DB {
	if f.From != nil {
		tx = tx.Where(f.Column+" >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where(f.Column+" <= ?", *f.To)
	}
	return tx
}

// NumericBucket selects rows whose column lies in
// [v, IncreaseLastDigit(v)) for any of the given values. The implicit
// upper bound is one unit of the value's least significant decimal
// digit above it, bucketing noisy floating measurements.
type NumericBucket struct {
	Column string
	Values []float64
}

func (f NumericBucket) Apply(tx *gorm.DB) *gorm.DB {
	clauses := make([]string, 0, len(f.Values))
	args := make([]interface{}, 0, 2*len(f.Values))
	for _, v := range f.Values {
		clauses = append(clauses, "("+f.Column+" >= ? AND "+f.Column+" < ?)")
		args = append(args, v, IncreaseLastDigit(v))
	}
	return tx.Where(strings.Join(clauses, " OR "), args...)
}

// ParseNumericValues parses filter candidates for a NumericBucket
// dimension.
func ParseNumericValues(name string, raw []string) ([]float64, error) {
	values := make([]float64, 0, len(raw))
	for _, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, apperr.New(apperr.InvalidFilter, "invalid %s value %q", name, s)
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseBool parses a boolean presence filter value.
func ParseBool(name, raw string) (bool, error) {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperr.New(apperr.InvalidFilter, "invalid %s value %q", name, raw)
	}
	return v, nil
}
