package cosmic

import (
	"fmt"
	"iter"
	"strings"

	"github.com/samber/lo"
)

// RecordKeys are the INFO keys written by the converter itself. A source
// column deriving one of them is not passed through.
var RecordKeys = []string{"CHR2", "POS2", "SVTYPE", "CT"}

// DeriveKey turns a column name into an INFO key: spaces removed, upper case.
func DeriveKey(column string) string {
	return strings.ToUpper(strings.ReplaceAll(column, " ", ""))
}

// DuplicateKeyError reports two columns that derive the same INFO key.
type DuplicateKeyError struct {
	Key    string
	Column string
	Other  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %s: columns %q and %q", e.Key, e.Column, e.Other)
}

// KeyMap maps pass-through columns to INFO keys in header order.
type KeyMap struct {
	m       *OrderedMap[string, string]
	skipped []string
}

// BuildKeyMap derives INFO keys for every non-reserved column. It fails with
// a *DuplicateKeyError when two distinct columns derive the same key.
// Columns whose key is one of RecordKeys are left out; see Skipped.
func BuildKeyMap(columns []string) (*KeyMap, error) {
	passThrough := lo.Filter(columns, func(col string, _ int) bool {
		return !ReservedColumns[col]
	})

	km := &KeyMap{m: NewOrderedMap[string, string](len(passThrough))}
	owner := make(map[string]string, len(passThrough))

	for _, col := range passThrough {
		if _, ok := km.m.Get(col); ok {
			continue
		}
		key := DeriveKey(col)
		if lo.Contains(RecordKeys, key) {
			if !lo.Contains(km.skipped, col) {
				km.skipped = append(km.skipped, col)
			}
			continue
		}
		if prev, taken := owner[key]; taken {
			return nil, &DuplicateKeyError{Key: key, Column: prev, Other: col}
		}
		owner[key] = col
		km.m.Set(col, key)
	}
	return km, nil
}

// Skipped returns the columns left out because their key is a record key.
func (km *KeyMap) Skipped() []string {
	return km.skipped
}

// Key returns the INFO key for a column.
func (km *KeyMap) Key(column string) (string, bool) {
	return km.m.Get(column)
}

// Columns returns the pass-through columns in header order.
func (km *KeyMap) Columns() []string {
	return km.m.Keys()
}

// Len returns the number of pass-through columns.
func (km *KeyMap) Len() int {
	return km.m.Len()
}

// All iterates over column, key pairs in header order.
func (km *KeyMap) All() iter.Seq2[string, string] {
	return km.m.All()
}
