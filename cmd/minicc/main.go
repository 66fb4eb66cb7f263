package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/aiven-lang/minicc/internal/driver"
)

type options struct {
	Output        string `short:"o" long:"output" description:"output path"`
	NoLinemarkers bool   `short:"P" long:"no-linemarkers" description:"strip preprocessor linemarkers"`
	Preprocess    bool   `short:"E" long:"preprocess" description:"stop after preprocessing"`
	Lex           bool   `long:"lex" description:"stop after lexing and print tokens"`
	Parse         bool   `long:"parse" description:"stop after parsing and print the AST"`
	Validate      bool   `long:"validate" description:"stop after semantic analysis"`
	Tacky         bool   `long:"tacky" description:"stop after TACKY lowering and print the IR"`
	Codegen       bool   `long:"codegen" description:"stop after assembly lowering and print the IR"`
	Assembly      bool   `short:"S" long:"assembly" description:"stop after emitting assembly"`
	ObjectOnly    bool   `short:"c" description:"assemble to an object file, do not link"`

	Positional struct {
		Source string `positional-arg-name:"source" required:"yes"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(driver.Run(driver.Options{
		Output:        opts.Output,
		NoLinemarkers: opts.NoLinemarkers,
		Preprocess:    opts.Preprocess,
		Lex:           opts.Lex,
		Parse:         opts.Parse,
		Validate:      opts.Validate,
		Tacky:         opts.Tacky,
		Codegen:       opts.Codegen,
		Assembly:      opts.Assembly,
		ObjectOnly:    opts.ObjectOnly,
		Source:        opts.Positional.Source,
	}))
}
