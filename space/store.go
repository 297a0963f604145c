package space

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sx "github.com/branched-services/go-sx"
)

// Store persists deployment records.
type Store interface {
	Save(rec *DeploymentRecord) error
}

// FileStore writes each record to <Dir>/<network>.json.
type FileStore struct {
	Dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the file a record for network is written to.
func (s *FileStore) Path(network string) string {
	return filepath.Join(s.Dir, network+".json")
}

// Save writes rec atomically: the document is checked against the record
// schema, written to a temporary file in the same directory and renamed over
// the destination.
func (s *FileStore) Save(rec *DeploymentRecord) error {
	if rec.Network == "" {
		return errors.New("space: record has no network name")
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("space: encode record: %w", err)
	}
	if err := ValidateRecord(data); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return &sx.ResourceUnavailableError{Resource: s.Dir, Err: err}
	}

	tmp, err := os.CreateTemp(s.Dir, rec.Network+".*.json.tmp")
	if err != nil {
		return &sx.ResourceUnavailableError{Resource: s.Dir, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("space: write record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("space: sync record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("space: close record: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(rec.Network)); err != nil {
		return fmt.Errorf("space: install record: %w", err)
	}
	return nil
}

// Load reads the record previously saved for network. A file that does not
// match the record schema is rejected.
func (s *FileStore) Load(network string) (*DeploymentRecord, error) {
	path := s.Path(network)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sx.ResourceUnavailableError{Resource: path, Err: err}
	}
	if err := ValidateRecord(data); err != nil {
		return nil, fmt.Errorf("space: %s: %w", path, err)
	}
	var rec DeploymentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("space: decode %s: %w", path, err)
	}
	return &rec, nil
}
