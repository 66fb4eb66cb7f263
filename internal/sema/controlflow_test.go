package sema

import (
	"testing"

	"github.com/aiven-lang/minicc/internal/cast"
	"github.com/aiven-lang/minicc/internal/ids"
)

func TestBreakOutsideLoopOrSwitchIsAnError(t *testing.T) {
	prog := mustParse(t, `int main(void) { break; return 0; }`)
	if err := LabelControlFlow(prog, ids.New()); err == nil {
		t.Fatal("expected a control-flow error for a stray break")
	}
}

func TestContinueOutsideLoopIsAnError(t *testing.T) {
	prog := mustParse(t, `int main(void) { continue; return 0; }`)
	if err := LabelControlFlow(prog, ids.New()); err == nil {
		t.Fatal("expected a control-flow error for a stray continue")
	}
}

func TestBreakInsideSwitchTargetsTheSwitch(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			int x;
			switch (x) {
				case 1: break;
				default: break;
			}
			return 0;
		}
	`)
	if err := LabelControlFlow(prog, ids.New()); err != nil {
		t.Fatalf("LabelControlFlow: %v", err)
	}
	sw := prog.Decls[0].Body.Items[1].(*cast.SwitchStmt)
	if !sw.HasDefault || len(sw.Cases) != 1 || sw.Cases[0] != 1 {
		t.Fatalf("expected switch to record case 1 and a default, got %#v", sw)
	}
	brk := sw.Body.(*cast.CompoundStmt).Block.Items[0].(*cast.CaseStmt).Stmt.(*cast.BreakStmt)
	if brk.Label != sw.ID {
		t.Fatalf("expected the break under case 1 to target switch %d, got %d", sw.ID, brk.Label)
	}
}

func TestNestedLoopInsideSwitchGetsItsOwnContinueTarget(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			int x;
			switch (x) {
				case 1:
					while (x) {
						continue;
					}
					break;
			}
			return 0;
		}
	`)
	if err := LabelControlFlow(prog, ids.New()); err != nil {
		t.Fatalf("LabelControlFlow: %v", err)
	}
}

func TestDuplicateCaseIsAnError(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			int x;
			switch (x) {
				case 1: break;
				case 1: break;
			}
			return 0;
		}
	`)
	if err := LabelControlFlow(prog, ids.New()); err == nil {
		t.Fatal("expected a control-flow error for a duplicate case value")
	}
}

func TestDuplicateDefaultIsAnError(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			int x;
			switch (x) {
				default: break;
				default: break;
			}
			return 0;
		}
	`)
	if err := LabelControlFlow(prog, ids.New()); err == nil {
		t.Fatal("expected a control-flow error for a duplicate default")
	}
}

func TestLoopAndSwitchNeverShareAnID(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			int x;
			while (x) {
				switch (x) {
					default: break;
				}
			}
			return 0;
		}
	`)
	if err := LabelControlFlow(prog, ids.New()); err != nil {
		t.Fatalf("LabelControlFlow: %v", err)
	}
	loop := prog.Decls[0].Body.Items[1].(*cast.WhileStmt)
	sw := loop.Body.(*cast.CompoundStmt).Block.Items[0].(*cast.SwitchStmt)
	if loop.ID == sw.ID {
		t.Fatalf("loop and switch must not share an id: both got %d", loop.ID)
	}
}
