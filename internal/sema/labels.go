package sema

import (
	"github.com/aiven-lang/minicc/internal/cast"
	"github.com/aiven-lang/minicc/internal/diag"
)

// ResolveGotoLabels runs §4.3.4: within each function, every Labelled name
// must be unique and every Goto target must name some Labelled statement in
// the same function. Each function's label scope is independent.
func ResolveGotoLabels(prog *cast.Program) error {
	for _, fn := range prog.Decls {
		if fn.Body == nil {
			continue
		}
		present := map[string]diag.Pos{}
		needed := map[string]diag.Pos{}
		if err := collectLabelsInBlock(fn.Body, fn.Name, present, needed); err != nil {
			return err
		}
		for target, pos := range needed {
			if _, ok := present[target]; !ok {
				return diag.NewLabelError(pos, "use of undeclared label %q in function %q", target, fn.Name)
			}
		}
	}
	return nil
}

// collectLabelsInBlock walks a function body accumulating the position of
// every present Labelled name and needed Goto target, failing immediately
// on a second definition of the same label.
func collectLabelsInBlock(blk *cast.Block, fnName string, present, needed map[string]diag.Pos) error {
	for _, item := range blk.Items {
		if stmt, ok := item.(cast.Stmt); ok {
			if err := collectLabelsInStmt(stmt, fnName, present, needed); err != nil {
				return err
			}
		}
	}
	return nil
}

func collectLabelsInStmt(stmt cast.Stmt, fnName string, present, needed map[string]diag.Pos) error {
	switch s := stmt.(type) {
	case *cast.GotoStmt:
		if _, ok := needed[s.Target]; !ok {
			needed[s.Target] = s.Pos
		}
		return nil
	case *cast.LabelledStmt:
		if _, dup := present[s.Name]; dup {
			return diag.NewLabelError(s.Pos, "duplicate label %q in function %q", s.Name, fnName)
		}
		present[s.Name] = s.Pos
		return collectLabelsInStmt(s.Stmt, fnName, present, needed)
	case *cast.IfStmt:
		if err := collectLabelsInStmt(s.Then, fnName, present, needed); err != nil {
			return err
		}
		if s.Else != nil {
			return collectLabelsInStmt(s.Else, fnName, present, needed)
		}
		return nil
	case *cast.CompoundStmt:
		return collectLabelsInBlock(s.Block, fnName, present, needed)
	case *cast.WhileStmt:
		return collectLabelsInStmt(s.Body, fnName, present, needed)
	case *cast.DoWhileStmt:
		return collectLabelsInStmt(s.Body, fnName, present, needed)
	case *cast.ForStmt:
		return collectLabelsInStmt(s.Body, fnName, present, needed)
	case *cast.SwitchStmt:
		return collectLabelsInStmt(s.Body, fnName, present, needed)
	case *cast.CaseStmt:
		return collectLabelsInStmt(s.Stmt, fnName, present, needed)
	case *cast.DefaultStmt:
		return collectLabelsInStmt(s.Stmt, fnName, present, needed)
	default:
		return nil
	}
}
