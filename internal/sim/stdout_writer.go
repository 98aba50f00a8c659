// Writer implementation printing result rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// StdoutWriter prints run and node rows as JSON lines.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a writer printing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// Write outputs a single run row.
func (w *StdoutWriter) Write(row RunRow) error {
	return w.encode(row)
}

// WriteBatch outputs multiple run rows.
func (w *StdoutWriter) WriteBatch(rows []RunRow) error {
	for _, r := range rows {
		if err := w.encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteNode outputs a single node row.
func (w *StdoutWriter) WriteNode(row NodeRow) error {
	return w.encode(row)
}

// WriteNodes outputs multiple node rows.
func (w *StdoutWriter) WriteNodes(rows []NodeRow) error {
	for _, r := range rows {
		if err := w.encode(r); err != nil {
			return err
		}
	}
	return nil
}

func (w *StdoutWriter) encode(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
