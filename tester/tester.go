package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tspec "github.com/nihei9/wavelabel/spec/test"
	"github.com/nihei9/wavelabel/table"
	"github.com/nihei9/wavelabel/value"
)

// LabelDiff is an input translated into an unexpected label.
type LabelDiff struct {
	Row      int
	Input    string
	Expected string
	Actual   string
}

func (d *LabelDiff) String() string {
	return fmt.Sprintf("line %v: %v: expected '%v' but got '%v'", d.Row, d.Input, d.Expected, d.Actual)
}

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*LabelDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		diffLines := make([]string, len(r.Diffs))
		for i, diff := range r.Diffs {
			diffLines[i] = diff.String()
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

// ListTestCases reads the test case at testPath or, when testPath is a directory, every test case under it. opts
// configures how input literals are read.
func ListTestCases(testPath string, opts value.LiteralOptions) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath, opts)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()), opts)
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string, opts value.LiteralOptions) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f, opts)
}

type Tester struct {
	Table *table.Table
	Cases []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(t.Table, c))
	}
	return rs
}

// runTest translates every input the way a waveform viewer would and compares the labels.
func runTest(tab *table.Table, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	var diffs []*LabelDiff
	for i, in := range c.TestCase.Inputs {
		tr := tab.Translate(in.Value)
		if tr.Label == c.TestCase.Expected[i] {
			continue
		}
		diffs = append(diffs, &LabelDiff{
			Row:      in.Row,
			Input:    in.Literal,
			Expected: c.TestCase.Expected[i],
			Actual:   tr.Label,
		})
	}
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}
