package output

import (
	"fmt"
	"io"
)

// GenerateReport renders report in the named format and writes it to w
func GenerateReport(w io.Writer, report *Report, format string) error {
	formatter := GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("unsupported format: %s", format)
	}

	data, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", formatter.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = io.WriteString(w, "\n")
	}
	return err
}
