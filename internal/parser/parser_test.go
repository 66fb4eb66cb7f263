package parser

import (
	"testing"

	"github.com/aiven-lang/minicc/internal/cast"
)

func parseOneExpr(t *testing.T, expr string) cast.Expr {
	t.Helper()
	prog, err := Parse("int main(void) { return " + expr + "; }")
	if err != nil {
		t.Fatalf("Parse(%q): %v", expr, err)
	}
	ret := prog.Decls[0].Body.Items[0].(*cast.ReturnStmt)
	return ret.Expr
}

// precedence walks a Binary tree and asserts that every child's own
// operator precedence (if it is itself a Binary) is never lower than its
// parent's, on whichever side associativity requires — the invariant from
// §8.2 stated in lieu of a canonical printer.
func assertPrecedenceShape(t *testing.T, e cast.Expr) {
	t.Helper()
	bin, ok := e.(*cast.BinaryExpr)
	if !ok {
		return
	}
	prec := map[cast.BinaryOp]int{
		cast.OpMultiply: 50, cast.OpDivide: 50, cast.OpModulo: 50, cast.OpAdd: 45, cast.OpSubtract: 45,
		cast.OpLeftShift: 40, cast.OpRightShift: 40, cast.OpLessThan: 35, cast.OpGreaterThan: 35,
		cast.OpLessOrEqual: 35, cast.OpGreaterOrEqual: 35, cast.OpIsEqual: 30, cast.OpNotEqual: 30,
		cast.OpBitwiseAnd: 25, cast.OpBitwiseXor: 20, cast.OpBitwiseOr: 15, cast.OpLogicalAnd: 10, cast.OpLogicalOr: 5,
	}
	for _, child := range []cast.Expr{bin.Left, bin.Right} {
		if c, ok := child.(*cast.BinaryExpr); ok && prec[c.Op] < prec[bin.Op] {
			t.Fatalf("operand %#v binds looser than its parent %#v", c, bin)
		}
	}
	assertPrecedenceShape(t, bin.Left)
	assertPrecedenceShape(t, bin.Right)
}

func TestMultiplyBindsTighterThanAdd(t *testing.T) {
	e := parseOneExpr(t, "1 + 2 * 3")
	bin, ok := e.(*cast.BinaryExpr)
	if !ok || bin.Op != cast.OpAdd {
		t.Fatalf("expected top-level Add, got %#v", e)
	}
	rhs, ok := bin.Right.(*cast.BinaryExpr)
	if !ok || rhs.Op != cast.OpMultiply {
		t.Fatalf("expected right-hand Multiply, got %#v", bin.Right)
	}
	assertPrecedenceShape(t, e)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	prog, err := Parse("int main(void) { int a; int b; int c; a = b = c; return a; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stmt := prog.Decls[0].Body.Items[3].(*cast.ExprStmt)
	outer, ok := stmt.Expr.(*cast.AssignmentExpr)
	if !ok {
		t.Fatalf("expected outer assignment, got %#v", stmt.Expr)
	}
	if _, ok := outer.LValue.(*cast.Variable); !ok {
		t.Fatalf("expected a = ... with a plain Variable lvalue, got %#v", outer.LValue)
	}
	if _, ok := outer.RValue.(*cast.AssignmentExpr); !ok {
		t.Fatalf("expected b = c nested on the right, got %#v", outer.RValue)
	}
}

func TestConditionalOperator(t *testing.T) {
	e := parseOneExpr(t, "1 ? 2 : 3")
	cond, ok := e.(*cast.ConditionalExpr)
	if !ok {
		t.Fatalf("expected ConditionalExpr, got %#v", e)
	}
	if _, ok := cond.Cond.(*cast.Constant); !ok {
		t.Fatalf("expected constant condition, got %#v", cond.Cond)
	}
}

func TestCompoundAssignmentDesugarsWithDistinctLValueClone(t *testing.T) {
	prog, err := Parse("int main(void) { int a; a += 1; return a; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stmt := prog.Decls[0].Body.Items[1].(*cast.ExprStmt)
	assign, ok := stmt.Expr.(*cast.AssignmentExpr)
	if !ok {
		t.Fatalf("expected AssignmentExpr, got %#v", stmt.Expr)
	}
	lhs, ok := assign.LValue.(*cast.Variable)
	if !ok {
		t.Fatalf("expected lvalue clone to be a Variable, got %#v", assign.LValue)
	}
	rhs, ok := assign.RValue.(*cast.BinaryExpr)
	if !ok || rhs.Op != cast.OpAdd {
		t.Fatalf("expected a + 1 on the right, got %#v", assign.RValue)
	}
	inner, ok := rhs.Left.(*cast.Variable)
	if !ok {
		t.Fatalf("expected Binary.Left to be a Variable, got %#v", rhs.Left)
	}
	if lhs == inner {
		t.Fatal("lvalue clone must be a distinct node from the one embedded in the Binary expression")
	}
	if lhs.Name != inner.Name {
		t.Fatalf("clone name mismatch: %q vs %q", lhs.Name, inner.Name)
	}
}

func TestLabelledStatementVsExpressionStatement(t *testing.T) {
	// Declaration-after-use is a sema concern, not a parse error; this test
	// only asserts on parse structure.
	prog, err := Parse("int main(void) { int x; goto done; x = 1; done: return x; }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	items := prog.Decls[0].Body.Items
	if _, ok := items[2].(*cast.ExprStmt); !ok {
		t.Fatalf("expected plain ExprStmt for 'x = 1;', got %#v", items[2])
	}
	labelled, ok := items[3].(*cast.LabelledStmt)
	if !ok || labelled.Name != "done" {
		t.Fatalf("expected LabelledStmt 'done', got %#v", items[3])
	}
}

func TestCaseLabelMustBeConstant(t *testing.T) {
	_, err := Parse("int main(void) { int x; switch (x) { case x: return 0; } }")
	if err == nil {
		t.Fatal("expected a control-flow error for a non-constant case label")
	}
}
