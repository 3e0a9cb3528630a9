package template

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Repository defines persistence operations for the configuration record.
type Repository interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, record *Record) error
	Path() string
}

// FileRepository stores the record as an indented JSON file.
type FileRepository struct {
	// fs is the filesystem holding the file.
	fs afero.Fs
	// path is the location of the JSON file within fs.
	path string
	// mu serializes access to the file.
	mu sync.Mutex
}

const (
	// Indent is the per-level indentation used when rewriting the file.
	Indent = "    "

	// defaultFileMode is used when the file mode cannot be read back.
	defaultFileMode fs.FileMode = 0o644
)

var (
	// ErrNotFound is returned when the configuration file does not exist.
	ErrNotFound = errors.New("configuration file not found")
	// ErrMalformed is returned when the file is not a JSON object.
	ErrMalformed = errors.New("malformed configuration file")
	// errRecordIsNotSet is returned when a nil record is saved.
	errRecordIsNotSet = errors.New("record is not set")
)

// NewFileRepository creates a repository for the JSON file at path on fsys.
func NewFileRepository(fsys afero.Fs, path string) *FileRepository {
	return &FileRepository{
		fs:   fsys,
		path: filepath.Clean(path),
	}
}

// Path returns the file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and decodes the record.
func (r *FileRepository) Load(_ context.Context) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}

		return nil, fmt.Errorf("read configuration file: %w", err)
	}

	record := NewRecord()
	if err = json.Unmarshal(contents, record); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, r.path, err)
	}

	record.trailingNewline = bytes.HasSuffix(contents, []byte("\n"))

	return record, nil
}

// Save overwrites the file in place with the indented record.
func (r *FileRepository) Save(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := Encode(record)
	if err != nil {
		return err
	}

	mode := defaultFileMode
	if info, statErr := r.fs.Stat(r.path); statErr == nil {
		mode = info.Mode().Perm()
	}

	if err = afero.WriteFile(r.fs, r.path, data, mode); err != nil {
		return fmt.Errorf("write configuration file: %w", err)
	}

	return nil
}

// Encode renders record as JSON indented with four spaces.
func Encode(record *Record) ([]byte, error) {
	if record == nil {
		return nil, errRecordIsNotSet
	}

	// MarshalJSON is called directly: json.Marshal would HTML-escape its output.
	compact, err := record.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}

	var out bytes.Buffer
	if err = json.Indent(&out, compact, "", Indent); err != nil {
		return nil, fmt.Errorf("indent configuration: %w", err)
	}

	if record.trailingNewline {
		out.WriteByte('\n')
	}

	return out.Bytes(), nil
}
