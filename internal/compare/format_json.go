package compare

import (
	"encoding/json"
	"io"
	"strings"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	if err := jf.Write(&sb, compSet); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write encodes compSet to w followed by a newline
func (jf *JSONFormatter) Write(w io.Writer, compSet *ComparisonSet) error {
	enc := json.NewEncoder(w)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(compSet)
}
