package tacky

import (
	"testing"

	"github.com/aiven-lang/minicc/internal/cast"
	"github.com/aiven-lang/minicc/internal/ids"
	"github.com/aiven-lang/minicc/internal/parser"
	"github.com/aiven-lang/minicc/internal/sema"
)

// analyze runs every sema sub-pass needed before TACKY lowering can run,
// mirroring internal/driver's ordering, and returns the same generator
// sema used so lowering draws from one shared counter set.
func analyze(t *testing.T, src string) (*cast.Program, *ids.Generator) {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	gen := ids.New()
	if err := sema.ResolveIdentifiers(prog, gen); err != nil {
		t.Fatalf("ResolveIdentifiers: %v", err)
	}
	if _, err := sema.CheckTypes(prog); err != nil {
		t.Fatalf("CheckTypes: %v", err)
	}
	if err := sema.LabelControlFlow(prog, gen); err != nil {
		t.Fatalf("LabelControlFlow: %v", err)
	}
	if err := sema.ResolveGotoLabels(prog); err != nil {
		t.Fatalf("ResolveGotoLabels: %v", err)
	}
	return prog, gen
}

func TestEveryFunctionEndsWithAReturn(t *testing.T) {
	prog, gen := analyze(t, `int main(void) { int x = 1; }`)
	out := Lower(prog, gen)
	body := out.Functions[0].Body
	last := body[len(body)-1]
	ret, ok := last.(Return)
	if !ok {
		t.Fatalf("expected trailing Return, got %#v", last)
	}
	if c, ok := ret.Val.(Constant); !ok || c.Value != 0 {
		t.Fatalf("expected fallthrough Return 0, got %#v", ret.Val)
	}
}

func TestDeclarationWithoutBodyProducesNoFunction(t *testing.T) {
	prog, gen := analyze(t, `
		int foo(void);
		int main(void) { return foo(); }
	`)
	out := Lower(prog, gen)
	if len(out.Functions) != 1 {
		t.Fatalf("expected exactly one TACKY function (for main), got %d", len(out.Functions))
	}
	if out.Functions[0].Name != "main" {
		t.Fatalf("expected main, got %q", out.Functions[0].Name)
	}
}

// closedness (invariant 6): every Var a TACKY instruction reads must have
// been written earlier in program order (as a function param, or as some
// instruction's destination) before it's ever used as a source.
func TestClosedness(t *testing.T) {
	srcs := []string{
		`int main(void) { int a = 1; int b = 2; return a + b; }`,
		`int main(void) { int x = 0; while (x < 5) { x = x + 1; } return x; }`,
		`int main(void) { int x = 1; return x > 0 && x < 10; }`,
		`int f(int a, int b) { return a + b; } int main(void) { return f(1, 2); }`,
		`int main(void) { int x = 3; switch (x) { case 1: return 1; default: return 0; } }`,
	}
	for _, src := range srcs {
		prog, gen := analyze(t, src)
		out := Lower(prog, gen)
		for _, fn := range out.Functions {
			defined := map[string]bool{}
			for _, p := range fn.Params {
				defined[p] = true
			}
			for _, ins := range fn.Body {
				checkSources(t, src, fn.Name, ins, defined)
				markDestination(ins, defined)
			}
		}
	}
}

func checkSources(t *testing.T, src, fn string, ins Instruction, defined map[string]bool) {
	check := func(v Val) {
		if vv, ok := v.(Var); ok && !defined[vv.Name] {
			t.Fatalf("%s: function %s reads %q before it is ever written: %#v", src, fn, vv.Name, ins)
		}
	}
	switch v := ins.(type) {
	case Return:
		check(v.Val)
	case Unary:
		check(v.Src)
	case Binary:
		check(v.Src1)
		check(v.Src2)
	case Copy:
		check(v.Src)
	case JumpIfZero:
		check(v.Cond)
	case JumpIfNotZero:
		check(v.Cond)
	case JumpIfEqual:
		check(v.Src1)
		check(v.Src2)
	case FuncCall:
		for _, a := range v.Args {
			check(a)
		}
	}
}

func markDestination(ins Instruction, defined map[string]bool) {
	switch v := ins.(type) {
	case Unary:
		defined[v.Dst.(Var).Name] = true
	case Binary:
		defined[v.Dst.(Var).Name] = true
	case Copy:
		defined[v.Dst.(Var).Name] = true
	case FuncCall:
		defined[v.Dst.(Var).Name] = true
	}
}

func TestShortCircuitAndEmitsLabelPair(t *testing.T) {
	prog, gen := analyze(t, `int main(void) { int a = 1; int b = 0; return a && b; }`)
	out := Lower(prog, gen)
	var sawFalse, sawEnd bool
	for _, ins := range out.Functions[0].Body {
		if lbl, ok := ins.(Label); ok {
			if lbl.Name == "and_false.0" {
				sawFalse = true
			}
			if lbl.Name == "and_end.0" {
				sawEnd = true
			}
		}
	}
	if !sawFalse || !sawEnd {
		t.Fatalf("expected and_false.0/and_end.0 labels, got %#v", out.Functions[0].Body)
	}
}
