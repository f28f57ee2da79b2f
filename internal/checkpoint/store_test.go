package checkpoint

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/falcon-lin-development/GameSolver/internal/agent"
	"github.com/falcon-lin-development/GameSolver/internal/game"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "history"))
	var empty game.State
	full := game.State{}
	for i := range full {
		full[i] = 1
	}
	table := agent.Snapshot{
		empty.Key(): {1, 2, 3},
		full.Key():  {11: -4.5},
	}
	scores := []float64{-10, 3.5, 42}

	if err := s.Save(scores, 100, table); err != nil {
		t.Fatal(err)
	}
	gotScores, gotTable, err := s.Load(100)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotScores) != len(scores) {
		t.Fatalf("scores = %v, want %v", gotScores, scores)
	}
	for i := range scores {
		if gotScores[i] != scores[i] {
			t.Errorf("score %d = %v, want %v", i, gotScores[i], scores[i])
		}
	}
	if len(gotTable) != 2 || gotTable[empty.Key()] != table[empty.Key()] || gotTable[full.Key()] != table[full.Key()] {
		t.Errorf("table = %v, want %v", gotTable, table)
	}
}

func TestLoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, _, err := s.Load(5); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest err = %v, want ErrNotFound", err)
	}
}

func TestEpisodesAndLatest(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	for _, ep := range []int{200, 100, 1000} {
		if err := s.Save([]float64{float64(ep)}, ep, agent.Snapshot{}); err != nil {
			t.Fatal(err)
		}
	}
	// 无关文件应被忽略
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	eps, err := s.Episodes()
	if err != nil {
		t.Fatal(err)
	}
	want := []int{100, 200, 1000}
	if len(eps) != len(want) {
		t.Fatalf("episodes = %v, want %v", eps, want)
	}
	for i := range want {
		if eps[i] != want[i] {
			t.Fatalf("episodes = %v, want %v", eps, want)
		}
	}
	latest, err := s.Latest()
	if err != nil || latest != 1000 {
		t.Errorf("Latest = %d, %v; want 1000", latest, err)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestSaveIntoUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "blocker")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(filepath.Join(file, "sub"))
	if err := s.Save(nil, 1, agent.Snapshot{}); err == nil {
		t.Error("saving under a regular file should fail")
	}
}

func TestRestoreAgent(t *testing.T) {
	s := NewStore(t.TempDir())
	var st game.State
	st[44] = 1
	if err := s.Save(nil, 10, agent.Snapshot{st.Key(): {3: 9}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(nil, 20, agent.Snapshot{st.Key(): {5: 9}}); err != nil {
		t.Fatal(err)
	}
	r := rand.New(rand.NewSource(1))

	a, ep, err := s.Restore(agent.DefaultConfig(), r, 0)
	if err != nil || ep != 20 {
		t.Fatalf("latest restore: ep=%d err=%v", ep, err)
	}
	if got := a.GreedyAction(st); got != 5 {
		t.Errorf("greedy action from episode 20 = %d, want 5", got)
	}
	a, ep, err = s.Restore(agent.DefaultConfig(), r, 10)
	if err != nil || ep != 10 || a.GreedyAction(st) != 3 {
		t.Errorf("episode 10 restore: ep=%d err=%v", ep, err)
	}
	if _, _, err := s.Restore(agent.DefaultConfig(), r, 30); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing episode err = %v", err)
	}
}
