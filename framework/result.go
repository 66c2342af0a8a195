package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes a summary of a test run, listing each failed test with its errors.
func PrintResults(out io.Writer, results Results) {
	skipped := 0
	for _, t := range results.Tests {
		if t.Skipped {
			skipped++
		}
	}
	if results.OK() {
		fmt.Fprintf(out, "%s (%d tests, %d skipped)\n", color.GreenString("All tests passed"),
			len(results.Tests), skipped)
		return
	}
	fmt.Fprintf(out, "%s (%d of %d tests, %d skipped)\n", color.RedString("FAILED"),
		len(results.Failures), len(results.Tests), skipped)
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
		}
	}
}
