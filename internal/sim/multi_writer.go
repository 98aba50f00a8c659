package sim

// MultiWriter fans run and node rows out to multiple writers.
type MultiWriter struct {
	runWriters  []ResultWriter
	nodeWriters []NodeWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(rws []ResultWriter, nws []NodeWriter) *MultiWriter {
	return &MultiWriter{runWriters: rws, nodeWriters: nws}
}

// Write sends a run row to all writers.
func (mw *MultiWriter) Write(row RunRow) error {
	for _, w := range mw.runWriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteNode sends a node row to all node writers.
func (mw *MultiWriter) WriteNode(row NodeRow) error {
	for _, w := range mw.nodeWriters {
		if err := w.WriteNode(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteNodes sends multiple node rows to all node writers, using batch mode
// where supported.
func (mw *MultiWriter) WriteNodes(rows []NodeRow) error {
	for _, w := range mw.nodeWriters {
		if bw, ok := w.(batchNodeWriter); ok {
			if err := bw.WriteNodes(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteNode(r); err != nil {
				return err
			}
		}
	}
	return nil
}
