package sema

import "testing"

func TestArityMismatchIsATypeError(t *testing.T) {
	prog := mustParse(t, `
		int add(int a, int b);
		int main(void) { return add(1); }
	`)
	if _, err := CheckTypes(prog); err == nil {
		t.Fatal("expected a type error for calling add with too few arguments")
	}
}

func TestFunctionUsedAsVariableIsATypeError(t *testing.T) {
	prog := mustParse(t, `
		int foo(void);
		int main(void) { return foo + 1; }
	`)
	if _, err := CheckTypes(prog); err == nil {
		t.Fatal("expected a type error for using a function name as a variable")
	}
}

func TestDoubleDefinitionIsATypeError(t *testing.T) {
	prog := mustParse(t, `
		int foo(void) { return 1; }
		int foo(void) { return 2; }
	`)
	if _, err := CheckTypes(prog); err == nil {
		t.Fatal("expected a type error for redefining foo")
	}
}

func TestIncompatibleRedeclarationIsATypeError(t *testing.T) {
	prog := mustParse(t, `
		int foo(int a);
		int foo(int a, int b) { return a + b; }
	`)
	if _, err := CheckTypes(prog); err == nil {
		t.Fatal("expected a type error for an incompatible redeclaration")
	}
}

func TestCompatibleForwardDeclarationThenDefinitionIsFine(t *testing.T) {
	prog := mustParse(t, `
		int add(int a, int b);
		int main(void) { return add(1, 2); }
		int add(int a, int b) { return a + b; }
	`)
	syms, err := CheckTypes(prog)
	if err != nil {
		t.Fatalf("CheckTypes: %v", err)
	}
	info, ok := syms["add"]
	if !ok || !info.Defined {
		t.Fatalf("expected add to be marked Defined, got %#v", info)
	}
}
