package train

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/falcon-lin-development/GameSolver/internal/agent"
	"github.com/falcon-lin-development/GameSolver/internal/game"
)

type recordingCheckpointer struct {
	episodes []int
	lens     []int
	states   []int
	err      error
}

func (r *recordingCheckpointer) Save(scores []float64, episode int, table agent.Snapshot) error {
	r.episodes = append(r.episodes, episode)
	r.lens = append(r.lens, len(scores))
	r.states = append(r.states, len(table))
	return r.err
}

type recordingPlotter struct{ episodes []int }

func (r *recordingPlotter) Plot(scores []float64, episode int) error {
	r.episodes = append(r.episodes, episode)
	return nil
}

func newFixture(t *testing.T, seed int64) (*game.Environment, *agent.Agent) {
	t.Helper()
	env := game.NewEnvironment(rand.New(rand.NewSource(seed)))
	a, err := agent.New(agent.DefaultConfig(), rand.New(rand.NewSource(seed+1)))
	if err != nil {
		t.Fatal(err)
	}
	return env, a
}

func TestRunSmoke(t *testing.T) {
	env, a := newFixture(t, 1)
	cp := &recordingCheckpointer{}
	pl := &recordingPlotter{}
	var results []EpisodeResult

	tr, err := NewTrainer(env, a, Config{Episodes: 30, MaxSteps: 25, SaveInterval: 10},
		WithCheckpointer(cp), WithPlotter(pl),
		WithEpisodeHook(func(r EpisodeResult) { results = append(results, r) }))
	if err != nil {
		t.Fatal(err)
	}
	scores, err := tr.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 30 || len(results) != 30 {
		t.Fatalf("scores=%d results=%d, want 30", len(scores), len(results))
	}
	for i, r := range results {
		if r.Episode != i+1 {
			t.Errorf("result %d has episode %d", i, r.Episode)
		}
		if r.Steps < 1 || r.Steps > 25 {
			t.Errorf("episode %d took %d steps", r.Episode, r.Steps)
		}
		if !r.Won && r.Steps != 25 {
			t.Errorf("episode %d stopped early at %d without a win", r.Episode, r.Steps)
		}
		if scores[i] != r.TotalReward {
			t.Errorf("score %d = %v, result says %v", i, scores[i], r.TotalReward)
		}
	}

	wantEp := []int{10, 20, 30}
	if !equalInts(cp.episodes, wantEp) || !equalInts(pl.episodes, wantEp) {
		t.Errorf("save cadence: checkpoint %v plot %v, want %v", cp.episodes, pl.episodes, wantEp)
	}
	if !equalInts(cp.lens, wantEp) {
		t.Errorf("checkpoint score lengths = %v", cp.lens)
	}
	if cp.states[2] != a.Table().Len() {
		t.Errorf("last checkpoint had %d states, table has %d", cp.states[2], a.Table().Len())
	}
	if a.ExplorationRate() >= 1 {
		t.Error("exploration should have decayed during training")
	}
}

func TestRunStopsOnCheckpointError(t *testing.T) {
	env, a := newFixture(t, 2)
	boom := errors.New("disk full")
	cp := &recordingCheckpointer{err: boom}
	tr, _ := NewTrainer(env, a, Config{Episodes: 10, MaxSteps: 5, SaveInterval: 3}, WithCheckpointer(cp))
	scores, err := tr.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if len(scores) != 3 {
		t.Errorf("scores = %d, want 3", len(scores))
	}
}

func TestRunHonoursCancel(t *testing.T) {
	env, a := newFixture(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	tr, _ := NewTrainer(env, a, Config{Episodes: 100, MaxSteps: 5},
		WithEpisodeHook(func(r EpisodeResult) {
			if r.Episode == 4 {
				cancel()
			}
		}))
	scores, err := tr.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(scores) != 4 {
		t.Errorf("finished %d episodes, want 4", len(scores))
	}
}

func TestRendererSeesEveryStep(t *testing.T) {
	env, a := newFixture(t, 4)
	var frames []Frame
	tr, _ := NewTrainer(env, a, Config{Episodes: 3, MaxSteps: 6},
		WithRenderer(RenderFunc(func(f Frame) { frames = append(frames, f) })))
	scores, err := tr.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) == 0 {
		t.Fatal("renderer never called")
	}
	last := frames[len(frames)-1]
	if last.Episode != 3 || last.TotalReward != scores[2] {
		t.Errorf("last frame = ep %d total %v, want ep 3 total %v", last.Episode, last.TotalReward, scores[2])
	}
	if last.BestReward != max(scores[0], scores[1]) {
		t.Errorf("best reward = %v, want %v", last.BestReward, max(scores[0], scores[1]))
	}
	for _, f := range frames {
		if f.Board.CountMarked() != game.MarkerCount {
			t.Fatalf("frame board has %d markers", f.Board.CountMarked())
		}
	}
}

// fixedLearner 只记录 Update 收到的 done 标志
type fixedLearner struct {
	table *agent.ValueTable
	dones []bool
}

func (f *fixedLearner) ChooseAction(game.State) int { return 0 }
func (f *fixedLearner) Update(_ game.State, _ int, _ float64, _ game.State, done bool) {
	f.dones = append(f.dones, done)
}
func (f *fixedLearner) ExplorationRate() float64 { return 0 }
func (f *fixedLearner) Table() *agent.ValueTable { return f.table }

func TestTerminalOnCap(t *testing.T) {
	for _, onCap := range []bool{false, true} {
		env := game.NewEnvironment(rand.New(rand.NewSource(5)))
		l := &fixedLearner{table: agent.NewValueTable()}
		tr, _ := NewTrainer(env, l, Config{Episodes: 1, MaxSteps: 4, TerminalOnCap: onCap})
		if _, err := tr.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if len(l.dones) == 0 {
			t.Fatal("no updates")
		}
		lastDone := l.dones[len(l.dones)-1]
		if onCap && !lastDone {
			t.Error("TerminalOnCap: last update should be terminal")
		}
		if !onCap && lastDone && !env.IsWon() {
			t.Error("without TerminalOnCap the cap must not mark the update terminal")
		}
	}
}

func TestNewTrainerRejectsBadConfig(t *testing.T) {
	env, a := newFixture(t, 6)
	for _, cfg := range []Config{
		{Episodes: 1, MaxSteps: 0},
		{Episodes: -1, MaxSteps: 1},
		{Episodes: 1, MaxSteps: 1, SaveInterval: -1},
	} {
		if _, err := NewTrainer(env, a, cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%+v: err = %v", cfg, err)
		}
	}
}

func TestBestRewardWindow(t *testing.T) {
	tr := &Trainer{}
	if tr.BestReward() != 0 {
		t.Error("best reward before any episode should be 0")
	}
	tr.remember(1000)
	for i := 0; i < BestWindow; i++ {
		tr.remember(float64(i))
	}
	if got := tr.BestReward(); got != BestWindow-1 {
		t.Errorf("best = %v, want %v (1000 should have left the window)", got, BestWindow-1)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
