package agent

import (
	"sort"

	"github.com/falcon-lin-development/GameSolver/internal/game"
)

// Values holds one estimate per action.
type Values [game.ActionCount]float64

// Snapshot is a by-value copy of a value table, safe to hand to another owner.
type Snapshot map[game.StateKey]Values

// ValueTable maps encoded states to per-action estimates. Entries are created
// zeroed on first access.
type ValueTable struct {
	rows map[game.StateKey]*Values
}

// NewValueTable returns an empty table.
func NewValueTable() *ValueTable {
	return &ValueTable{rows: make(map[game.StateKey]*Values)}
}

// Row returns the entry for s, inserting a zero vector if s is unseen.
func (t *ValueTable) Row(s game.State) *Values {
	return t.row(s.Key())
}

func (t *ValueTable) row(k game.StateKey) *Values {
	v, ok := t.rows[k]
	if !ok {
		v = new(Values)
		t.rows[k] = v
	}
	return v
}

// Lookup returns a copy of the entry for s without inserting it.
func (t *ValueTable) Lookup(s game.State) (Values, bool) {
	v, ok := t.rows[s.Key()]
	if !ok {
		return Values{}, false
	}
	return *v, true
}

// Len is the number of visited states.
func (t *ValueTable) Len() int {
	return len(t.rows)
}

// Snapshot deep-copies the table.
func (t *ValueTable) Snapshot() Snapshot {
	out := make(Snapshot, len(t.rows))
	for k, v := range t.rows {
		out[k] = *v
	}
	return out
}

// Keys returns the visited keys in ascending order.
func (t *ValueTable) Keys() []game.StateKey {
	keys := make([]game.StateKey, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// TableFromSnapshot rebuilds a table from a snapshot.
func TableFromSnapshot(s Snapshot) *ValueTable {
	t := &ValueTable{rows: make(map[game.StateKey]*Values, len(s))}
	for k, v := range s {
		v := v
		t.rows[k] = &v
	}
	return t
}
