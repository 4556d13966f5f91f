// -----------------------------------------------------------------------
// ConfigStore: persists named parameter presets as JSON files for later
// reuse. Writes are atomic-rename-on-write so a reader never observes a
// half-written file; a corrupt file found on read is logged with a
// warning and reported as not-found rather than as a system error.
// -----------------------------------------------------------------------

package configstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/batchpdf/internal/batcherr"
)

const component = "configstore"

// Entry is the persisted ConfigStore record, per spec.md §6.
type Entry struct {
	Name        string                 `json:"name"`
	Operation   string                 `json:"operation"`
	Parameters  map[string]interface{} `json:"parameters"`
	CreatedAt   string                 `json:"created_at"`
	SourceJobID string                 `json:"source_job_id"`
}

// Store persists Entry values to a directory, one JSON file per name.
type Store struct {
	mu     sync.Mutex
	dir    string
	logger arbor.ILogger
}

var validName = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

func New(dir string, logger arbor.ILogger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, batcherr.SystemError(component, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes entry to <dir>/<name>.json, last-writer-wins, via a
// temp-file-then-rename so concurrent readers never see a partial file.
func (s *Store) Save(entry Entry) error {
	if !validName.MatchString(entry.Name) {
		return batcherr.InvalidInput(component, "invalid config name: "+entry.Name)
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return batcherr.SystemError(component, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, entry.Name+".*.tmp")
	if err != nil {
		return batcherr.SystemError(component, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return batcherr.SystemError(component, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return batcherr.SystemError(component, err)
	}
	if err := os.Rename(tmpPath, s.path(entry.Name)); err != nil {
		os.Remove(tmpPath)
		return batcherr.SystemError(component, err)
	}
	return nil
}

// Load reads the entry named name. Returns not-found if the file is
// absent. A file present but unparsable is treated as not-found, with a
// warning logged, rather than surfacing a system-error to the caller.
func (s *Store) Load(name string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return Entry{}, batcherr.NotFound(component, "config not found: "+name)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn().Err(err).Str("name", name).Msg("skipping corrupted config file")
		return Entry{}, batcherr.NotFound(component, "config not found: "+name)
	}
	return entry, nil
}

// NewEntry is a small convenience constructor mirroring the shape
// BatchManager.save_config needs to build.
func NewEntry(name, operation string, params map[string]interface{}, sourceJobID string) Entry {
	paramsCopy := make(map[string]interface{}, len(params))
	for k, v := range params {
		paramsCopy[k] = v
	}
	return Entry{
		Name:        name,
		Operation:   operation,
		Parameters:  paramsCopy,
		CreatedAt:   time.Now().Format(time.RFC3339),
		SourceJobID: sourceJobID,
	}
}
