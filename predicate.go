package tablesplit

import "fmt"

// Split is one emitted chunk, composed of a table descriptor and a
// ChunkRange. SplitID identifies it within its table by emission order.
type Split struct {
	TablePath string
	SplitID   string
	Query     string
	KeyName   string
	KeyType   Kind
	Start     *Key
	End       *Key
}

func newSplit(tablePath, query, keyName string, keyType Kind, ordinal int, r ChunkRange) Split {
	return Split{
		TablePath: tablePath,
		SplitID:   fmt.Sprintf("%s-%d", tablePath, ordinal),
		Query:     query,
		KeyName:   keyName,
		KeyType:   keyType,
		Start:     r.Start,
		End:       r.End,
	}
}

// ToSQL renders the split's base query plus a range predicate over
// KeyName. The "<= ? AND NOT
// (= ?)" idiom on a chunk's upper bound is a deliberate substitute for
// "< ?": same semantics, but it lets the database optimizer consider an
// index equality plan on the boundary value. Pairing the next chunk's
// ">=" with this chunk's "NOT (= ?)" guarantees the shared boundary value
// belongs to exactly one chunk.
func (s Split) ToSQL() (string, []interface{}) {
	where, args := s.wherePredicate()
	if where == "" {
		return s.Query, nil
	}
	return s.Query + " WHERE " + where, args
}

func (s Split) wherePredicate() (string, []interface{}) {
	switch {
	case s.Start == nil && s.End == nil:
		return "", nil
	case s.Start == nil:
		v := keyBindValue(*s.End)
		return fmt.Sprintf("%s <= ? AND NOT (%s = ?)", s.KeyName, s.KeyName), []interface{}{v, v}
	case s.End == nil:
		return fmt.Sprintf("%s >= ?", s.KeyName), []interface{}{keyBindValue(*s.Start)}
	default:
		sv, ev := keyBindValue(*s.Start), keyBindValue(*s.End)
		return fmt.Sprintf("%s >= ? AND NOT (%s = ?) AND %s <= ?", s.KeyName, s.KeyName, s.KeyName), []interface{}{sv, ev, ev}
	}
}

// keyBindValue converts a Key to the native Go value passed to
// database/sql for parameter binding.
func keyBindValue(k Key) interface{} {
	return k.Value()
}

