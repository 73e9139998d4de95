package testutils

import (
	"encoding/json"
	"testing"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

func MustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// JSONAsserter compares JSON documents structurally, so key order and
// whitespace differences in emulator responses do not fail tests.
type JSONAsserter struct {
	t *testing.T
}

func NewJSONAsserter(t *testing.T) *JSONAsserter {
	return &JSONAsserter{t: t}
}

// Assert compares actualJSON against expectedJSON and reports a readable
// diff on mismatch.
func (ja *JSONAsserter) Assert(actualJSON, expectedJSON string) {
	ja.t.Helper()

	differ := gojsondiff.New()
	diff, err := differ.Compare([]byte(expectedJSON), []byte(actualJSON))
	if err != nil {
		ja.t.Errorf("JSON comparison failed: %v\nexpected: %s\nactual: %s", err, expectedJSON, actualJSON)
		return
	}
	if !diff.Modified() {
		return
	}

	var expected map[string]interface{}
	if err := json.Unmarshal([]byte(expectedJSON), &expected); err != nil {
		ja.t.Errorf("invalid expected JSON: %v", err)
		return
	}

	f := formatter.NewAsciiFormatter(expected, formatter.AsciiFormatterConfig{ShowArrayIndex: true})
	rendered, err := f.Format(diff)
	if err != nil {
		rendered = "(failed to render diff: " + err.Error() + ")"
	}
	ja.t.Errorf("JSON assertion failed:\n%s", rendered)
}
