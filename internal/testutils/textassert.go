package testutils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/mcuadros/go-defaults"
)

// TestingT matches the subset of testing.T the asserters need.
type TestingT interface {
	Errorf(format string, args ...interface{})
}

type TextAssertOptions struct {
	TrimSpace    bool `default:"true"`
	EnableColors bool `default:"false"`
}

// TextOption is a functional option for configuring TextAsserter.
type TextOption func(*TextAssertOptions)

func WithColors() TextOption {
	return func(o *TextAssertOptions) { o.EnableColors = true }
}

func WithExactWhitespace() TextOption {
	return func(o *TextAssertOptions) { o.TrimSpace = false }
}

// TextAsserter compares multi-line text bodies (HTML pages, plain-text
// endpoint responses) and reports mismatches as unified diffs.
type TextAsserter struct {
	t       TestingT
	options TextAssertOptions
}

// NewTextAsserter creates a TextAsserter with default options.
func NewTextAsserter(t *testing.T) *TextAsserter {
	return NewTextAsserterWithInterface(t)
}

// NewTextAsserterWithInterface is the TestingT-typed constructor, used by
// the asserter's own tests.
func NewTextAsserterWithInterface(t TestingT) *TextAsserter {
	opts := TextAssertOptions{}
	defaults.SetDefaults(&opts)
	return &TextAsserter{t: t, options: opts}
}

// WithOptions applies functional options to the TextAsserter.
func (ta *TextAsserter) WithOptions(opts ...TextOption) *TextAsserter {
	for _, opt := range opts {
		opt(&ta.options)
	}
	return ta
}

// Equal asserts that actual matches expected, printing a unified diff on
// mismatch.
func (ta *TextAsserter) Equal(expected, actual string) {
	e, a := expected, actual
	if ta.options.TrimSpace {
		e, a = strings.TrimSpace(e), strings.TrimSpace(a)
	}
	if e == a {
		return
	}

	edits := myers.ComputeEdits("expected", e, a)
	diff := fmt.Sprint(gotextdiff.ToUnified("expected", "actual", e, edits))
	if ta.options.EnableColors {
		diff = colorizeDiff(diff)
	}
	ta.t.Errorf("text mismatch:\n%s", diff)
}

// Contains asserts that the body contains the given substring, quoting the
// full body on failure so the device response is visible in the test log.
func (ta *TextAsserter) Contains(body, substr string) {
	if strings.Contains(body, substr) {
		return
	}
	ta.t.Errorf("expected body to contain %q, got:\n%s", substr, body)
}

func colorizeDiff(diff string) string {
	add := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed).SprintFunc()

	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = add(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = del(line)
		}
	}
	return strings.Join(lines, "\n")
}
