// Package record exports played games as CSV rows, one row per step:
//
//	s0 … s44, action, reward, done, game
//
// s0…s44 is the encoded state before the action.
package record

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/falcon-lin-development/GameSolver/internal/game"
	"github.com/falcon-lin-development/GameSolver/internal/train"
)

// Columns is the number of fields in every row.
const Columns = game.StateLen + 4

// Header names every column.
func Header() []string {
	h := make([]string, 0, Columns)
	for i := 0; i < game.StateLen; i++ {
		h = append(h, "s"+strconv.Itoa(i))
	}
	return append(h, "action", "reward", "done", "game")
}

// Rows turns a trace (see train.Trace) into CSV rows.
func Rows(gameID int, frames []train.Frame) ([][]string, error) {
	if len(frames) < 2 {
		return nil, nil
	}
	id := strconv.Itoa(gameID)
	rows := make([][]string, 0, len(frames)-1)
	for i := 1; i < len(frames); i++ {
		prev, cur := &frames[i-1], &frames[i]
		action, err := game.EncodeAction(cur.Move, cur.Index)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		state := game.EncodeState(&prev.Board)
		row := make([]string, 0, Columns)
		for _, v := range state {
			row = append(row, strconv.Itoa(int(v)))
		}
		row = append(row,
			strconv.Itoa(action),
			strconv.FormatFloat(cur.TotalReward-prev.TotalReward, 'g', -1, 64),
			strconv.FormatBool(game.IsWon(&cur.Board)),
			id,
		)
		rows = append(rows, row)
	}
	return rows, nil
}

// Writer appends rows from several goroutines; each game is written as one block.
type Writer struct {
	mu sync.Mutex
	w  *csv.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// WriteGame writes rows and flushes so a crash never leaves half a game buffered.
func (w *Writer) WriteGame(rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.w.WriteAll(rows); err != nil {
		return errors.Wrap(err, "write rows")
	}
	return nil
}

// Repair 检查文件尾部是否有残缺行，截断到最后一个完整行。
// 返回完整行数（含表头）和下一个可用的 game id（已有最大 id + 1）
func Repair(path string) (lines, nextGame int, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var offset int64
	rdr := bufio.NewReader(f)
	for {
		line, err := rdr.ReadBytes('\n')
		if err == io.EOF {
			// 没有换行结尾的最后一行视为残缺
			break
		}
		if err != nil {
			return lines, nextGame, errors.Wrapf(err, "read %s", path)
		}
		if countColumns(line) != Columns {
			break
		}
		offset += int64(len(line))
		lines++
		// 各 worker 按完成顺序写入，id 不单调，取最大值
		if id, e := strconv.Atoi(lastField(line)); e == nil && id+1 > nextGame {
			nextGame = id + 1
		}
	}
	info, err := f.Stat()
	if err != nil {
		return lines, nextGame, errors.Wrapf(err, "stat %s", path)
	}
	if info.Size() != offset {
		if err := f.Truncate(offset); err != nil {
			return lines, nextGame, errors.Wrapf(err, "truncate %s", path)
		}
	}
	return lines, nextGame, nil
}

func lastField(line []byte) string {
	s := strings.TrimRight(string(line), "\r\n")
	return s[strings.LastIndexByte(s, ',')+1:]
}

// 简单统计逗号列数，字段里不会出现逗号
func countColumns(b []byte) int {
	n := 1
	for _, c := range b {
		if c == ',' {
			n++
		}
	}
	return n
}
