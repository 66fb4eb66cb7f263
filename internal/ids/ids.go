// Package ids generates the fresh names and label ids every later stage
// needs: temporaries, renamed variables, loop/switch ids, and the
// short-circuit/conditional label pairs.
//
// Naming conventions are grounded on the original compiler's
// makeTemporaryRegister/makeAndLabels/makeOrLabels helpers: tmp.K for
// temporaries, name.cvK for renamed variables, and the {false,end}/{true,end}
// label pairs for && and ||.
package ids

import "fmt"

// Generator holds every monotonic counter the pipeline needs. A single
// Generator is threaded by reference through semantic analysis and TACKY
// lowering so that all families of fresh names stay unique within one
// compilation.
type Generator struct {
	temp   int
	rename int
	ctrl   int // shared by Loop and Switch: break labels read "break_ctrl.K" for a loop and
	// a switch alike (the label does not name the kind of construct), so a loop
	// and a switch must never be assigned the same K, or their break labels
	// would collide in the emitted assembly.
	labelCtr int
}

func New() *Generator { return &Generator{} }

// Temp returns a fresh TACKY temporary name, tmp.0, tmp.1, ...
func (g *Generator) Temp() string {
	n := g.temp
	g.temp++
	return fmt.Sprintf("tmp.%d", n)
}

// Rename returns a fresh unique name for a declared variable, name.cv0,
// name.cv1, ...
func (g *Generator) Rename(name string) string {
	n := g.rename
	g.rename++
	return fmt.Sprintf("%s.cv%d", name, n)
}

// Loop allocates a fresh loop id.
func (g *Generator) Loop() int {
	n := g.ctrl
	g.ctrl++
	return n
}

// Switch allocates a fresh switch id.
func (g *Generator) Switch() int {
	n := g.ctrl
	g.ctrl++
	return n
}

// nextLabel allocates a fresh value from the one counter shared by the
// && / || / ?: / if label families. The original keeps an independent
// static counter per helper; sharing one counter here only changes the
// numeric suffix, never the uniqueness guarantee.
func (g *Generator) nextLabel() int {
	n := g.labelCtr
	g.labelCtr++
	return n
}

// AndLabels returns (falseLabel, endLabel) for a short-circuited && with a
// fresh suffix.
func (g *Generator) AndLabels() (string, string) {
	n := g.nextLabel()
	return fmt.Sprintf("and_false.%d", n), fmt.Sprintf("and_end.%d", n)
}

// OrLabels returns (trueLabel, endLabel) for a short-circuited || with a
// fresh suffix.
func (g *Generator) OrLabels() (string, string) {
	n := g.nextLabel()
	return fmt.Sprintf("or_true.%d", n), fmt.Sprintf("or_end.%d", n)
}

// CondLabels returns (expr2Label, endLabel) for a conditional expression.
func (g *Generator) CondLabels() (string, string) {
	n := g.nextLabel()
	return fmt.Sprintf("cond_else.%d", n), fmt.Sprintf("cond_end.%d", n)
}

// IfLabels returns (elseLabel, endLabel) for an if/else statement.
func (g *Generator) IfLabels() (string, string) {
	n := g.nextLabel()
	return fmt.Sprintf("if_else.%d", n), fmt.Sprintf("if_end.%d", n)
}

// BreakLabel names the label a break targets. id is whichever of a loop id
// or a switch id is innermost at the break site; the ctrl counter both are
// drawn from guarantees no two constructs share an id.
func BreakLabel(id int) string    { return fmt.Sprintf("break_ctrl.%d", id) }
func ContinueLabel(id int) string { return fmt.Sprintf("continue_loop.%d", id) }
func StartLabel(id int) string    { return fmt.Sprintf("start_loop.%d", id) }
func CaseLabel(value, switchID int) string {
	return fmt.Sprintf("case_%d_switch.%d", value, switchID)
}
func DefaultLabel(switchID int) string { return fmt.Sprintf("default_switch.%d", switchID) }
