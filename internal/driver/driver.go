// Package driver orchestrates the compilation pipeline end to end:
// preprocess, compile (lex/parse/validate/tacky/codegen/emit), assemble,
// link. Every stage's intermediate file is removed on every exit path.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/aiven-lang/minicc/internal/asmgen"
	"github.com/aiven-lang/minicc/internal/cast"
	"github.com/aiven-lang/minicc/internal/emit"
	"github.com/aiven-lang/minicc/internal/ids"
	"github.com/aiven-lang/minicc/internal/lexer"
	"github.com/aiven-lang/minicc/internal/parser"
	"github.com/aiven-lang/minicc/internal/sema"
	"github.com/aiven-lang/minicc/internal/tacky"
)

// Options mirrors the CLI flags from cmd/minicc; it is a plain struct so
// this package stays independent of the go-flags tag layer.
type Options struct {
	Output        string
	NoLinemarkers bool
	Preprocess    bool
	Lex           bool
	Parse         bool
	Validate      bool
	Tacky         bool
	Codegen       bool
	Assembly      bool
	ObjectOnly    bool
	Source        string
}

// Run executes the full pipeline for opts, returning a process exit code.
func Run(opts Options) int {
	output := opts.Output
	if output == "" {
		output = strings.TrimSuffix(opts.Source, ".c")
	}

	preprocessedPath := output + ".i"
	defer os.Remove(preprocessedPath)

	if err := preprocess(opts.Source, preprocessedPath, opts.NoLinemarkers); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if opts.Preprocess {
		return 0
	}

	src, err := os.ReadFile(preprocessedPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	asmText, stopped, err := compile(string(src), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if stopped {
		return 0
	}

	assemblyPath := output + ".s"
	if err := os.WriteFile(assemblyPath, []byte(asmText), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer os.Remove(assemblyPath)

	if opts.Assembly {
		return 0
	}

	if err := assemble(assemblyPath, output, opts.ObjectOnly); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// preprocess always strips linemarkers with -P: internal/lexer has no
// handling for "# 1 \"file.c\"" linemarker lines, so they must never reach
// it, matching both branches of the original's preprocess_file.
func preprocess(sourcePath, destPath string, noLinemarkers bool) error {
	return runTool("gcc", "-E", "-P", sourcePath, "-o", destPath)
}

func assemble(assemblyPath, output string, objectOnly bool) error {
	if objectOnly {
		return runTool("gcc", "-c", assemblyPath, "-o", output+".o")
	}
	return runTool("gcc", assemblyPath, "-o", output)
}

func runTool(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// compile runs every in-process pass over src, honoring the stage-stop
// flags. It returns the emitted assembly text, whether a stop flag ended
// the pipeline before emission, and the first fatal diagnostic if any.
func compile(src string, opts Options) (string, bool, error) {
	lx, err := lexer.New(src)
	if err != nil {
		return "", false, err
	}
	if opts.Lex {
		for _, t := range lx.All() {
			fmt.Println(lexer.DescribeToken(t))
		}
		return "", true, nil
	}

	prog, err := parser.Parse(src)
	if err != nil {
		return "", false, err
	}
	if opts.Parse {
		fmt.Printf("%+v\n", prog)
		return "", true, nil
	}

	gen := ids.New()
	syms, err := runSema(prog, gen)
	if err != nil {
		return "", false, err
	}
	if opts.Validate {
		fmt.Printf("%+v\n", prog)
		return "", true, nil
	}

	tackyProg := tacky.Lower(prog, gen)
	if opts.Tacky {
		fmt.Printf("%+v\n", tackyProg)
		return "", true, nil
	}

	asmProg := asmgen.Lower(tackyProg)
	asmgen.ReplacePseudoRegisters(asmProg, syms)
	stackSizes := make(map[string]int32, len(syms))
	for name, info := range syms {
		stackSizes[name] = info.StackSize
	}
	asmgen.FixUp(asmProg, stackSizes)
	if opts.Codegen {
		fmt.Printf("%+v\n", asmProg)
		return "", true, nil
	}

	return emit.Program(asmProg, syms), false, nil
}

// runSema runs §4.3's four sub-passes in order — identifier resolution,
// type checking, control-flow labelling, goto-label resolution — and
// returns the symbol table type checking produces. gen is also handed to
// TACKY lowering afterward, so every fresh name or label id allocated
// across the whole pipeline comes from one shared counter set.
func runSema(prog *cast.Program, gen *ids.Generator) (cast.SymbolTable, error) {
	if err := sema.ResolveIdentifiers(prog, gen); err != nil {
		return nil, err
	}
	syms, err := sema.CheckTypes(prog)
	if err != nil {
		return nil, err
	}
	if err := sema.LabelControlFlow(prog, gen); err != nil {
		return nil, err
	}
	if err := sema.ResolveGotoLabels(prog); err != nil {
		return nil, err
	}
	return syms, nil
}
