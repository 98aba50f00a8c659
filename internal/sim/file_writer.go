package sim

import (
	"encoding/json"
	"os"
)

// FileWriter writes run and node rows to JSONL files.
type FileWriter struct {
	runFile  *os.File
	nodeFile *os.File
	runEnc   *json.Encoder
	nodeEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. nodePath may be empty to skip the
// per-node log.
func NewFileWriter(runPath, nodePath string) (*FileWriter, error) {
	rf, err := os.Create(runPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{runFile: rf, runEnc: json.NewEncoder(rf)}
	if nodePath != "" {
		nf, err := os.Create(nodePath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		fw.nodeFile = nf
		fw.nodeEnc = json.NewEncoder(nf)
	}
	return fw, nil
}

// Write logs a single run row.
func (f *FileWriter) Write(row RunRow) error {
	return f.runEnc.Encode(row)
}

// WriteBatch logs multiple run rows.
func (f *FileWriter) WriteBatch(rows []RunRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteNode logs a single node row, if enabled.
func (f *FileWriter) WriteNode(row NodeRow) error {
	if f.nodeEnc == nil {
		return nil
	}
	return f.nodeEnc.Encode(row)
}

// WriteNodes logs multiple node rows.
func (f *FileWriter) WriteNodes(rows []NodeRow) error {
	for _, r := range rows {
		if err := f.WriteNode(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.runFile != nil {
		if e := f.runFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.nodeFile != nil {
		if e := f.nodeFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
