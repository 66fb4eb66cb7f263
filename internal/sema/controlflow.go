package sema

import (
	"github.com/aiven-lang/minicc/internal/cast"
	"github.com/aiven-lang/minicc/internal/diag"
	"github.com/aiven-lang/minicc/internal/ids"
)

// ctrlKind distinguishes what a break/continue target stack entry can
// satisfy: a switch can only be the target of a break, a loop of either.
type ctrlKind int

const (
	ctrlLoop ctrlKind = iota
	ctrlSwitch
)

type ctrlFrame struct {
	kind ctrlKind
	id   int
}

type labeller struct {
	gen        *ids.Generator
	breakStack []ctrlFrame // loops and switches: valid break targets
	loopStack  []int       // loops only: valid continue targets
}

// LabelControlFlow runs §4.3.3: assigns fresh ids to every loop and switch,
// resolves break/continue to the innermost enclosing target, and collects
// each switch's case/default set.
func LabelControlFlow(prog *cast.Program, gen *ids.Generator) error {
	l := &labeller{gen: gen}
	for _, fn := range prog.Decls {
		if fn.Body == nil {
			continue
		}
		if err := l.labelBlock(fn.Body); err != nil {
			return err
		}
	}
	return nil
}

func (l *labeller) labelBlock(blk *cast.Block) error {
	for _, item := range blk.Items {
		if stmt, ok := item.(cast.Stmt); ok {
			if err := l.labelStmt(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *labeller) labelStmt(stmt cast.Stmt) error {
	switch s := stmt.(type) {
	case *cast.IfStmt:
		if err := l.labelStmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return l.labelStmt(s.Else)
		}
		return nil

	case *cast.LabelledStmt:
		return l.labelStmt(s.Stmt)

	case *cast.CompoundStmt:
		return l.labelBlock(s.Block)

	case *cast.BreakStmt:
		if len(l.breakStack) == 0 {
			return diag.NewControlFlowError(s.Pos, "'break' statement not in a loop or switch")
		}
		s.Label = l.breakStack[len(l.breakStack)-1].id
		return nil

	case *cast.ContinueStmt:
		if len(l.loopStack) == 0 {
			return diag.NewControlFlowError(s.Pos, "'continue' statement not in a loop")
		}
		s.Label = l.loopStack[len(l.loopStack)-1]
		return nil

	case *cast.WhileStmt:
		s.ID = l.gen.Loop()
		l.pushLoop(s.ID)
		err := l.labelStmt(s.Body)
		l.popLoop()
		return err

	case *cast.DoWhileStmt:
		s.ID = l.gen.Loop()
		l.pushLoop(s.ID)
		err := l.labelStmt(s.Body)
		l.popLoop()
		return err

	case *cast.ForStmt:
		s.ID = l.gen.Loop()
		l.pushLoop(s.ID)
		err := l.labelStmt(s.Body)
		l.popLoop()
		return err

	case *cast.SwitchStmt:
		s.ID = l.gen.Switch()
		l.breakStack = append(l.breakStack, ctrlFrame{kind: ctrlSwitch, id: s.ID})
		err := l.labelSwitchBody(s, s.Body)
		l.breakStack = l.breakStack[:len(l.breakStack)-1]
		return err

	case *cast.CaseStmt:
		// labelSwitchBody registers every case it reaches itself and never
		// hands one to labelStmt, so a case arriving here is not under a
		// switch body walk: it is outside any switch, or inside a loop or
		// other statement nested in one, and is rejected.
		return diag.NewControlFlowError(s.Pos, "'case' statement not in a switch")

	case *cast.DefaultStmt:
		return diag.NewControlFlowError(s.Pos, "'default' statement not in a switch")

	default:
		return nil
	}
}

func (l *labeller) pushLoop(id int) {
	l.loopStack = append(l.loopStack, id)
	l.breakStack = append(l.breakStack, ctrlFrame{kind: ctrlLoop, id: id})
}

func (l *labeller) popLoop() {
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	l.breakStack = l.breakStack[:len(l.breakStack)-1]
}

// labelSwitchBody walks a switch's body statement, recognizing Case/Default
// nodes that belong to sw and recording their constants/flag. It walks
// compound, if and labelled statements itself (so a case inside a nested
// block or if still resolves against sw) and hands every other statement to
// the normal labelStmt (so a loop nested inside the switch body gets its own
// independent break/continue targets via the normal stack).
func (l *labeller) labelSwitchBody(sw *cast.SwitchStmt, stmt cast.Stmt) error {
	switch s := stmt.(type) {
	case *cast.CaseStmt:
		val, ok := evalConstant(s)
		_ = ok
		for _, c := range sw.Cases {
			if c == val {
				return diag.NewControlFlowError(s.Pos, "duplicate case value %d", val)
			}
		}
		sw.Cases = append(sw.Cases, val)
		s.SwitchID = sw.ID
		return l.labelSwitchBody(sw, s.Stmt)

	case *cast.DefaultStmt:
		if sw.HasDefault {
			return diag.NewControlFlowError(s.Pos, "multiple default labels in one switch")
		}
		sw.HasDefault = true
		s.SwitchID = sw.ID
		return l.labelSwitchBody(sw, s.Stmt)

	case *cast.CompoundStmt:
		for _, item := range s.Block.Items {
			if inner, ok := item.(cast.Stmt); ok {
				if err := l.labelSwitchBody(sw, inner); err != nil {
					return err
				}
			}
		}
		return nil

	case *cast.IfStmt:
		if err := l.labelSwitchBody(sw, s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return l.labelSwitchBody(sw, s.Else)
		}
		return nil

	case *cast.LabelledStmt:
		return l.labelSwitchBody(sw, s.Stmt)

	default:
		// Not a case/default/compound/if/labelled node: it's an ordinary
		// statement (or a nested loop/switch), which gets the regular
		// break/continue-stack treatment instead.
		return l.labelStmt(stmt)
	}
}

// evalConstant extracts the already-parsed integer constant out of a case
// label. The parser only ever builds a CaseStmt from a cast.Constant and
// itself raises the control-flow error for a non-literal case (see
// internal/parser), so Value is already populated and this never fails.
func evalConstant(c *cast.CaseStmt) (int64, bool) {
	return c.Value, true
}
