// Package conformance runs behavioral test corpora in the layout of the
// official JSON-Schema-Test-Suite: a file holds schema tests, each with a
// schema and a list of (data, valid) cases. It consumes only the public
// compile and validate entry points, which keeps it an external harness
// rather than part of the core.
package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gojson "github.com/goccy/go-json"

	draft7 "github.com/reoring/draft7"
)

// Case is one instance/expectation pair.
type Case struct {
	Description string `json:"description"`
	Data        any    `json:"data"`
	Valid       bool   `json:"valid"`
}

// SchemaTest groups the cases exercising one schema.
type SchemaTest struct {
	Description string `json:"description"`
	Schema      any    `json:"schema"`
	Tests       []Case `json:"tests"`
}

// Outcome classifies a single case run. A schema that fails to compile
// yields exactly one Unimplemented result, never a silent pass or crash.
type Outcome int

const (
	Passed Outcome = iota
	Failed
	Unimplemented
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "PASSED"
	case Failed:
		return "FAILED"
	case Unimplemented:
		return "UNIMPLEMENTED"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result records one case outcome (or one compile failure per schema).
type Result struct {
	File    string
	Schema  string
	Case    string
	Outcome Outcome
	Detail  string
}

// Summary counts results by outcome.
type Summary struct {
	Passed        int
	Failed        int
	Unimplemented int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case Passed:
			s.Passed++
		case Failed:
			s.Failed++
		case Unimplemented:
			s.Unimplemented++
		}
	}
	return s
}

// LoadFile reads one corpus file. Numbers decode as json.Number so the
// exact-arithmetic test cases behave as written.
func LoadFile(path string) ([]SchemaTest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := gojson.NewDecoder(f)
	dec.UseNumber()
	var tests []SchemaTest
	if err := dec.Decode(&tests); err != nil {
		return nil, fmt.Errorf("conformance: decode %s: %w", path, err)
	}
	return tests, nil
}

// Run compiles each schema and evaluates its cases. Compile failure is
// reported as a single Unimplemented result carrying the CompileError
// text; it is never conflated with a FAILED verdict mismatch.
func Run(file string, tests []SchemaTest, opts ...draft7.CompileOpt) []Result {
	var results []Result
	for _, st := range tests {
		v, err := draft7.GenerateValidator(st.Schema, opts...)
		if err != nil {
			results = append(results, Result{
				File:    file,
				Schema:  st.Description,
				Outcome: Unimplemented,
				Detail:  err.Error(),
			})
			continue
		}
		for _, tc := range st.Tests {
			r := Result{File: file, Schema: st.Description, Case: tc.Description}
			if v.Validate(tc.Data) == tc.Valid {
				r.Outcome = Passed
			} else {
				r.Outcome = Failed
				r.Detail = fmt.Sprintf("want valid=%v", tc.Valid)
			}
			results = append(results, r)
		}
	}
	return results
}

// RunFile loads and runs a single corpus file.
func RunFile(path string, opts ...draft7.CompileOpt) ([]Result, error) {
	tests, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Run(filepath.Base(path), tests, opts...), nil
}

// RunDir runs every .json corpus file directly under dir, in name order.
func RunDir(dir string, opts ...draft7.CompileOpt) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	var results []Result
	for _, name := range names {
		rs, err := RunFile(filepath.Join(dir, name), opts...)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}
	return results, nil
}

// LoadRemotes registers every .json file under dir (recursively) in a
// document table keyed by base + relative path, the way the official
// suite's remotes/ directory is served at http://localhost:1234/.
func LoadRemotes(dir, base string) (map[string]any, error) {
	docs := map[string]any{}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		doc, err := draft7.JSONFile(path)
		if err != nil {
			return err
		}
		docs[base+filepath.ToSlash(rel)] = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
