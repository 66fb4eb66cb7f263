package sema

import (
	"testing"

	"github.com/aiven-lang/minicc/internal/cast"
	"github.com/aiven-lang/minicc/internal/ids"
	"github.com/aiven-lang/minicc/internal/parser"
)

func mustParse(t *testing.T, src string) *cast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return prog
}

// collectVarDeclNames walks the tree gathering every VarDecl.Name after
// resolution, to check invariant 3: no two VarDecls share a new_name.
func collectVarDeclNames(blk *cast.Block, out *[]string) {
	for _, item := range blk.Items {
		if decl, ok := item.(*cast.VarDecl); ok {
			*out = append(*out, decl.Name)
		}
		if stmt, ok := item.(cast.Stmt); ok {
			collectVarDeclNamesInStmt(stmt, out)
		}
	}
}

func collectVarDeclNamesInStmt(stmt cast.Stmt, out *[]string) {
	switch s := stmt.(type) {
	case *cast.CompoundStmt:
		collectVarDeclNames(s.Block, out)
	case *cast.IfStmt:
		collectVarDeclNamesInStmt(s.Then, out)
		if s.Else != nil {
			collectVarDeclNamesInStmt(s.Else, out)
		}
	case *cast.WhileStmt:
		collectVarDeclNamesInStmt(s.Body, out)
	case *cast.DoWhileStmt:
		collectVarDeclNamesInStmt(s.Body, out)
	case *cast.ForStmt:
		if s.Init.Decl != nil {
			*out = append(*out, s.Init.Decl.Name)
		}
		collectVarDeclNamesInStmt(s.Body, out)
	case *cast.LabelledStmt:
		collectVarDeclNamesInStmt(s.Stmt, out)
	}
}

func TestResolveIdentifiersGivesEveryVarDeclAUniqueName(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			int x = 1;
			{
				int x = 2;
			}
			if (x) {
				int x = 3;
			}
			return x;
		}
	`)
	if err := ResolveIdentifiers(prog, ids.New()); err != nil {
		t.Fatalf("ResolveIdentifiers: %v", err)
	}
	var names []string
	collectVarDeclNames(prog.Decls[0].Body, &names)
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Fatalf("duplicate resolved name %q among VarDecls: %v", n, names)
		}
		seen[n] = true
	}
	if len(names) != 3 {
		t.Fatalf("expected 3 VarDecls, found %d: %v", len(names), names)
	}
}

func TestRedeclarationInSameScopeIsAnError(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			int x = 1;
			int x = 2;
			return x;
		}
	`)
	if err := ResolveIdentifiers(prog, ids.New()); err == nil {
		t.Fatal("expected a resolution error for redeclaring x in the same scope")
	}
}

func TestUseOfUndeclaredIdentifierIsAnError(t *testing.T) {
	prog := mustParse(t, `int main(void) { return y; }`)
	if err := ResolveIdentifiers(prog, ids.New()); err == nil {
		t.Fatal("expected a resolution error for an undeclared identifier")
	}
}

func TestInvalidLValueIsAnError(t *testing.T) {
	prog := mustParse(t, `int main(void) { 1 = 2; return 0; }`)
	if err := ResolveIdentifiers(prog, ids.New()); err == nil {
		t.Fatal("expected a resolution error for assigning to a constant")
	}
}

func TestNestedFunctionDefinitionIsAnError(t *testing.T) {
	prog := mustParse(t, `int main(void) { int foo(void) { return 1; } return 0; }`)
	if err := ResolveIdentifiers(prog, ids.New()); err == nil {
		t.Fatal("expected a resolution error for a nested function definition")
	}
}
