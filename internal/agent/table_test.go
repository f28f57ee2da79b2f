package agent

import (
	"testing"

	"github.com/falcon-lin-development/GameSolver/internal/game"
)

func TestValueTableLazyRows(t *testing.T) {
	tbl := NewValueTable()
	s := stateFor(20)
	if tbl.Len() != 0 {
		t.Fatalf("new table len = %d", tbl.Len())
	}
	row := tbl.Row(s)
	row[3] = 1.5
	if tbl.Len() != 1 {
		t.Fatalf("len after Row = %d, want 1", tbl.Len())
	}
	if got := tbl.Row(s); got[3] != 1.5 {
		t.Errorf("second Row returned a different entry: %v", got)
	}
	if _, ok := tbl.Lookup(stateFor(21)); ok {
		t.Error("Lookup reported an unseen state")
	}
	if tbl.Len() != 1 {
		t.Error("Lookup must not insert")
	}
}

func TestValueTableKeysSorted(t *testing.T) {
	tbl := NewValueTable()
	for seed := int64(30); seed < 40; seed++ {
		tbl.Row(stateFor(seed))
	}
	keys := tbl.Keys()
	if len(keys) != tbl.Len() {
		t.Fatalf("keys = %d, len = %d", len(keys), tbl.Len())
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys not strictly ascending at %d", i)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	tbl := NewValueTable()
	var empty game.State
	tbl.Row(empty)[game.ActionCount-1] = -2
	snap := tbl.Snapshot()
	back := TableFromSnapshot(snap)
	v, ok := back.Lookup(empty)
	if !ok || v[game.ActionCount-1] != -2 {
		t.Errorf("round trip lost the entry: %v %v", v, ok)
	}
}
