package sema

import "testing"

func TestGotoToExistingLabelResolves(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			goto end;
			return 1;
			end: return 0;
		}
	`)
	if err := ResolveGotoLabels(prog); err != nil {
		t.Fatalf("ResolveGotoLabels: %v", err)
	}
}

func TestGotoToUndefinedLabelIsAnError(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			goto nowhere;
			return 0;
		}
	`)
	if err := ResolveGotoLabels(prog); err == nil {
		t.Fatal("expected a label error for an undefined goto target")
	}
}

func TestDuplicateLabelIsAnError(t *testing.T) {
	prog := mustParse(t, `
		int main(void) {
			one: return 1;
			one: return 2;
		}
	`)
	if err := ResolveGotoLabels(prog); err == nil {
		t.Fatal("expected a label error for a duplicate label")
	}
}

func TestLabelScopeIsPerFunction(t *testing.T) {
	prog := mustParse(t, `
		int f(void) {
			same: return 1;
		}
		int g(void) {
			same: return 2;
		}
	`)
	if err := ResolveGotoLabels(prog); err != nil {
		t.Fatalf("expected independent label namespaces per function, got %v", err)
	}
}
