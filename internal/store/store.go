package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Backend loads and saves the whole AppData document.
type Backend interface {
	Load() (*AppData, error)
	Save(*AppData) error
	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the backend named kind, storing its data at path.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case "", BackendJSON:
		return NewJSONFile(path), nil
	case BackendSQLite:
		return New(path)
	}
	return nil, fmt.Errorf("unknown storage backend %q", kind)
}

// LoadOrDefault loads the document from b. Any failure is logged and the
// empty first-run document is returned instead.
func LoadOrDefault(b Backend) *AppData {
	data, err := b.Load()
	if err != nil {
		log.Printf("load app data: %v (starting with an empty document)", err)
		return NewAppData()
	}
	return data
}

// JSONFile stores the document as a pretty-printed JSON file.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Path() string { return j.path }

// Load reads the document. A missing file yields the empty document with no
// error; a malformed one yields the empty document and the parse error.
func (j *JSONFile) Load() (*AppData, error) {
	bs, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewAppData(), nil
		}
		return NewAppData(), fmt.Errorf("read data file: %w", err)
	}
	data := &AppData{}
	if err := json.Unmarshal(bs, data); err != nil {
		return NewAppData(), fmt.Errorf("parse data file: %w", err)
	}
	data.Normalize()
	return data, nil
}

// Save overwrites the whole file. The write goes through a temp file in the
// same directory so a failed write leaves the old document in place.
func (j *JSONFile) Save(data *AppData) error {
	data.Normalize()
	bs, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(j.path), ".timesplit-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(bs); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func (j *JSONFile) Close() error { return nil }
