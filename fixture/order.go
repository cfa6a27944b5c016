package fixture

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// OrderingKey sorts records. Explicitly ordered records come first,
// ascending by Order; Seq breaks ties and is unique within a run.
type OrderingKey struct {
	Explicit bool
	Order    int
	Seq      int
}

// Compare returns -1, 0 or +1.
func (k OrderingKey) Compare(o OrderingKey) int {
	if k.Explicit != o.Explicit {
		if k.Explicit {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(k.Order, o.Order); c != 0 {
		return c
	}
	return cmp.Compare(k.Seq, o.Seq)
}

func (k OrderingKey) String() string {
	if !k.Explicit {
		return fmt.Sprintf("-/%d", k.Seq)
	}
	return fmt.Sprintf("%d/%d", k.Order, k.Seq)
}

// AssignOrder sets Key on every record from its Order and its position in
// records, which must be discovery order. Records without an order get a
// Seq offset by the number of ordered records so they stay last.
func AssignOrder(records []*Record) {
	explicit := 0
	for _, r := range records {
		if r.Order != nil {
			explicit++
		}
	}
	for i, r := range records {
		r.Index = i
		if r.Order != nil {
			r.Key = OrderingKey{Explicit: true, Order: *r.Order, Seq: i}
			continue
		}
		r.Key = OrderingKey{Seq: explicit + i}
	}
}

// SortRecords sorts records by Key in place.
func SortRecords(records []*Record) {
	slices.SortStableFunc(records, func(a, b *Record) int {
		return a.Key.Compare(b.Key)
	})
}

// parseOrder reads the order value of a data section. Integers, integral
// floats and numeric strings are accepted; nil means unordered.
func parseOrder(v any) (*int, error) {
	var n int
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int:
		n = t
	case int64:
		if t > math.MaxInt32 || t < math.MinInt32 {
			return nil, fmt.Errorf("order %d out of range", t)
		}
		n = int(t)
	case uint64:
		if t > math.MaxInt32 {
			return nil, fmt.Errorf("order %d out of range", t)
		}
		n = int(t)
	case float64:
		if t != math.Trunc(t) || t > math.MaxInt32 || t < math.MinInt32 {
			return nil, fmt.Errorf("order %v is not an integer", t)
		}
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("order %q is not an integer", t)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("order must be an integer, got %T", v)
	}
	if n < 0 {
		return nil, fmt.Errorf("order %d must not be negative", n)
	}
	return &n, nil
}
