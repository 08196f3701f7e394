package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	draft7 "github.com/reoring/draft7"
	"github.com/reoring/draft7/conformance"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "validate":
		validateCmd(os.Args[2:])
	case "suite":
		suiteCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "draft7 CLI\n\nUsage:\n  draft7 validate -schema schema.json instance.json [instance2.json ...]\n  draft7 suite -dir test-suite/tests/draft7 [-remotes dir -base http://localhost:1234/]\n\nNotes:\n  - Schemas and instances may be .yaml/.yml; they are normalized into the JSON value model.\n  - validate exits 1 when any instance is invalid; suite exits 1 on any FAILED case.")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "schema file (.json, .yaml or .yml)")
	_ = fs.Parse(args)
	if schemaPath == "" || fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	schema, err := loadDocument(schemaPath)
	if err != nil {
		fatalf("loading schema: %v", err)
	}
	v, err := draft7.GenerateValidator(schema)
	if err != nil {
		if ce, ok := draft7.AsCompileError(err); ok {
			fatalf("schema does not compile: %v", ce)
		}
		fatalf("compile: %v", err)
	}

	invalid := 0
	for _, path := range fs.Args() {
		instance, err := loadDocument(path)
		if err != nil {
			fatalf("loading instance %s: %v", path, err)
		}
		if v.Validate(instance) {
			fmt.Printf("valid   %s\n", path)
		} else {
			fmt.Printf("invalid %s\n", path)
			invalid++
		}
	}
	if invalid > 0 {
		os.Exit(1)
	}
}

func suiteCmd(args []string) {
	fs := flag.NewFlagSet("suite", flag.ExitOnError)
	var dir, remotes, base string
	var verbose bool
	fs.StringVar(&dir, "dir", "", "directory of corpus .json files")
	fs.StringVar(&remotes, "remotes", "", "directory of remote documents for cross-document refs")
	fs.StringVar(&base, "base", "http://localhost:1234/", "base identifier remote documents are registered under")
	fs.BoolVar(&verbose, "v", false, "print every case outcome")
	_ = fs.Parse(args)
	if dir == "" {
		fs.Usage()
		os.Exit(2)
	}

	var opt draft7.CompileOpt
	if remotes != "" {
		docs, err := conformance.LoadRemotes(remotes, base)
		if err != nil {
			fatalf("loading remotes: %v", err)
		}
		opt.Documents = docs
	}

	results, err := conformance.RunDir(dir, opt)
	if err != nil {
		fatalf("running suite: %v", err)
	}
	for _, r := range results {
		if verbose || r.Outcome != conformance.Passed {
			fmt.Printf("%-13s %s: %s: %s", r.Outcome, r.File, r.Schema, r.Case)
			if r.Detail != "" {
				fmt.Printf(" (%s)", r.Detail)
			}
			fmt.Println()
		}
	}
	s := conformance.Summarize(results)
	fmt.Printf("passed=%d failed=%d unimplemented=%d\n", s.Passed, s.Failed, s.Unimplemented)
	if s.Failed > 0 {
		os.Exit(1)
	}
}

func loadDocument(path string) (any, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return draft7.YAMLFile(path)
	default:
		return draft7.JSONFile(path)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
