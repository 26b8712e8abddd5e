package parsets

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/parsets/pkg/dataset"
	perrors "github.com/matzehuels/parsets/pkg/errors"
)

// Comparator orders two raw values, returning a negative number when a sorts
// before b, zero when they are equivalent and a positive number otherwise.
//
// Comparators that are not a total order yield an unspecified segment order
// but never fail a build.
type Comparator func(a, b dataset.Value) int

// Names accepted by [ComparatorByName].
const (
	SortNone        = "none"
	SortAsc         = "asc"
	SortDesc        = "desc"
	SortNumeric     = "numeric"
	SortNumericDesc = "numeric-desc"
)

// SortNames lists the accepted sort names.
var SortNames = []string{SortNone, SortAsc, SortDesc, SortNumeric, SortNumericDesc}

// CompareAsc orders values by their display form. Missing values sort last.
func CompareAsc(a, b dataset.Value) int {
	if c := compareMissing(a, b); c != 0 || a.IsMissing() {
		return c
	}
	return strings.Compare(a.String(), b.String())
}

// CompareNumeric orders numbers, and strings that parse as numbers, by
// value. Other values follow in display order, and missing values sort last.
func CompareNumeric(a, b dataset.Value) int {
	if c := compareMissing(a, b); c != 0 || a.IsMissing() {
		return c
	}
	fa, okA := numeric(a)
	fb, okB := numeric(b)
	switch {
	case okA && okB:
		if c := cmp.Compare(fa, fb); c != 0 {
			return c
		}
		return strings.Compare(a.String(), b.String())
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a.String(), b.String())
	}
}

// Reverse inverts a comparator.
func Reverse(c Comparator) Comparator {
	return func(a, b dataset.Value) int { return c(b, a) }
}

// ComparatorByName maps a sort name to a comparator. "none" and "" return
// nil, which keeps first-encounter order.
func ComparatorByName(name string) (Comparator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SortNone:
		return nil, nil
	case SortAsc:
		return CompareAsc, nil
	case SortDesc:
		return Reverse(CompareAsc), nil
	case SortNumeric:
		return CompareNumeric, nil
	case SortNumericDesc:
		return Reverse(CompareNumeric), nil
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidConfig,
			"unknown sort %q (valid: %s)", name, strings.Join(SortNames, ", "))
	}
}

// IsSortName reports whether name is accepted by [ComparatorByName].
func IsSortName(name string) bool {
	return name == "" || slices.Contains(SortNames, strings.ToLower(strings.TrimSpace(name)))
}

func compareMissing(a, b dataset.Value) int {
	switch {
	case a.IsMissing() && b.IsMissing():
		return 0
	case a.IsMissing():
		return 1
	case b.IsMissing():
		return -1
	}
	return 0
}

func numeric(v dataset.Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	if s, ok := v.Str(); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
