// Package checkpoint persists training progress as gob files keyed by episode.
package checkpoint

import (
	"encoding/gob"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/falcon-lin-development/GameSolver/internal/agent"
)

// ErrNotFound is returned when no checkpoint exists for the requested episode.
var ErrNotFound = errors.New("checkpoint not found")

var tableFile = regexp.MustCompile(`^q_table_episode_(\d+)\.gob$`)

// Store writes checkpoints under Dir:
//
//	q_table_episode_<N>.gob
//	scores_episode_<N>.gob
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir. The directory is created on first Save.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) tablePath(episode int) string {
	return filepath.Join(s.Dir, "q_table_episode_"+strconv.Itoa(episode)+".gob")
}

func (s *Store) scoresPath(episode int) string {
	return filepath.Join(s.Dir, "scores_episode_"+strconv.Itoa(episode)+".gob")
}

// Save writes the value table and score history for episode.
func (s *Store) Save(scores []float64, episode int, table agent.Snapshot) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", s.Dir)
	}
	if err := writeGob(s.tablePath(episode), table); err != nil {
		return err
	}
	return writeGob(s.scoresPath(episode), scores)
}

// Load reads back what Save wrote for episode.
func (s *Store) Load(episode int) ([]float64, agent.Snapshot, error) {
	var table agent.Snapshot
	if err := readGob(s.tablePath(episode), &table); err != nil {
		return nil, nil, err
	}
	var scores []float64
	if err := readGob(s.scoresPath(episode), &scores); err != nil {
		return nil, nil, err
	}
	if table == nil {
		table = agent.Snapshot{}
	}
	return scores, table, nil
}

// Episodes lists the saved episode numbers in ascending order.
func (s *Store) Episodes() ([]int, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", s.Dir)
	}
	var eps []int
	for _, e := range entries {
		m := tableFile.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		eps = append(eps, n)
	}
	sort.Ints(eps)
	return eps, nil
}

// Latest returns the highest saved episode number.
func (s *Store) Latest() (int, error) {
	eps, err := s.Episodes()
	if err != nil {
		return 0, err
	}
	if len(eps) == 0 {
		return 0, errors.Wrapf(ErrNotFound, "no checkpoints in %s", s.Dir)
	}
	return eps[len(eps)-1], nil
}

// Restore builds an agent from the checkpoint for episode, or the latest one
// when episode is 0. It returns the episode actually loaded.
func (s *Store) Restore(cfg agent.Config, rng *rand.Rand, episode int) (*agent.Agent, int, error) {
	if episode == 0 {
		var err error
		if episode, err = s.Latest(); err != nil {
			return nil, 0, err
		}
	}
	_, table, err := s.Load(episode)
	if err != nil {
		return nil, 0, err
	}
	a, err := agent.New(cfg, rng)
	if err != nil {
		return nil, 0, err
	}
	a.Restore(table)
	return a, episode, nil
}

func writeGob(path string, v any) error {
	// 先写临时文件再改名，避免读到半截的 checkpoint
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "create %s", tmp)
	}
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "encode %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "close %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "rename %s", tmp)
	}
	return nil
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return errors.Wrapf(ErrNotFound, "%s", path)
	}
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
