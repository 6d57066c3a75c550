package engine

import (
	"cmp"
	"fmt"
	"math"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/roach88/gridstate/internal/ir"
)

// CompareFunc orders two cell values: negative, zero or positive.
type CompareFunc func(a, b any) int

// DefaultLocale is the collation locale used when none is configured.
var DefaultLocale = language.English

// Comparator orders cell values the way a person reading the table expects.
//
// Two numeric values compare by magnitude, with NaN after every number.
// Anything else is converted with ir.ToString and compared with a
// locale-aware collator in numeric mode, so "apple" < "Banana" and
// "item2" < "item10".
//
// A Comparator holds collator buffers and is not safe for concurrent use.
type Comparator struct {
	tag      language.Tag
	collator *collate.Collator
}

// NewComparator creates a comparator for the given locale.
func NewComparator(tag language.Tag) *Comparator {
	return &Comparator{
		tag:      tag,
		collator: collate.New(tag, collate.Numeric),
	}
}

// ParseLocale parses a BCP 47 tag such as "en" or "sv-SE".
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", s, err)
	}
	return tag, nil
}

// Locale returns the collation locale.
func (c *Comparator) Locale() language.Tag {
	return c.tag
}

// Compare implements CompareFunc.
func (c *Comparator) Compare(a, b any) int {
	if x, ok := ir.AsNumber(a); ok {
		if y, ok := ir.AsNumber(b); ok {
			return compareNumbers(x, y)
		}
	}
	return c.collator.CompareString(ir.ToString(a), ir.ToString(b))
}

// compareNumbers orders NaN after every other value and equal to itself.
func compareNumbers(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(a, b)
}
