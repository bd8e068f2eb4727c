package notebook

import (
	"context"
	"errors"
	"fmt"

	"github.com/gravitrone/autoplot/internal/display"
	"github.com/gravitrone/autoplot/internal/session"
	"github.com/gravitrone/autoplot/internal/toast"
	"github.com/gravitrone/autoplot/internal/view"
)

// ErrCellFailed marks a cell whose script asked it to fail.
var ErrCellFailed = errors.New("cell raised")

// MagicFunc executes one %autoplot line.
type MagicFunc func(line string) error

// CellResult is what one executed cell left behind.
type CellResult struct {
	Index   int
	Name    string
	Success bool
	Err     error
	View    string
	Output  display.Item
	Notices []toast.Message
}

// Runner replays a script cell by cell against a session.
type Runner struct {
	script  *Script
	ns      *Namespace
	session *session.Session
	magic   MagicFunc
	next    int
}

// NewRunner prepares script for replay. ns must be the namespace the
// session reads.
func NewRunner(script *Script, ns *Namespace, s *session.Session, magic MagicFunc) *Runner {
	return &Runner{script: script, ns: ns, session: s, magic: magic}
}

// Done reports whether every cell has run.
func (r *Runner) Done() bool { return r.next >= len(r.script.Cells) }

// Len is the number of cells.
func (r *Runner) Len() int { return len(r.script.Cells) }

// Step runs the next cell. Magic and op failures fail the cell rather than
// the replay; only a redraw error is returned.
func (r *Runner) Step() (CellResult, error) {
	if r.Done() {
		return CellResult{}, errors.New("run cell: script finished")
	}
	idx := r.next
	r.next++
	cell := r.script.Cells[idx]

	res := CellResult{Index: idx, Name: cell.Name}
	res.Err = r.execute(cell)
	res.Success = res.Err == nil

	err := r.session.PostRunCell(view.ExecutionResult{Success: res.Success, Err: res.Err})
	if err != nil {
		return res, fmt.Errorf("run cell %d: %w", idx+1, err)
	}
	res.View = r.session.Manager.Active()
	res.Output = r.session.Output.Current()
	res.Notices = r.session.Toasts.Drain()
	return res, nil
}

func (r *Runner) execute(cell Cell) error {
	for _, line := range cell.Magic {
		if r.magic == nil {
			return errors.New("magic lines are not supported")
		}
		if err := r.magic(line); err != nil {
			return err
		}
	}
	for _, op := range cell.Run {
		if err := op.Apply(r.ns); err != nil {
			return err
		}
	}
	if cell.Fail {
		return ErrCellFailed
	}
	return nil
}

// Run replays every remaining cell, calling each after every one.
func (r *Runner) Run(ctx context.Context, each func(CellResult)) error {
	for !r.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := r.Step()
		if err != nil {
			return err
		}
		if each != nil {
			each(res)
		}
	}
	return nil
}
