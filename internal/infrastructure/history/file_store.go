package history

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// FileStore appends history records to a jsonl file. It backs history when
// the SQLite database cannot be opened.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save implements ports.HistoryRepository.
func (f *FileStore) Save(_ context.Context, record domain.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

// Records implements ports.HistoryRepository. Later lines with the same id
// replace earlier ones.
func (f *FileStore) Records(_ context.Context, limit int) ([]domain.SessionRecord, error) {
	all, err := f.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].StartedAt.After(all[j].StartedAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Get implements ports.HistoryRepository.
func (f *FileStore) Get(ctx context.Context, id string) (domain.SessionRecord, error) {
	all, err := f.Records(ctx, 0)
	if err != nil {
		return domain.SessionRecord{}, err
	}
	var matches []domain.SessionRecord
	for _, rec := range all {
		if rec.ID == id {
			return rec, nil
		}
		if id != "" && strings.HasPrefix(rec.ID, id) {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 0:
		return domain.SessionRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return domain.SessionRecord{}, fmt.Errorf("history id prefix %q is ambiguous", id)
	}
}

// Clear removes the history file.
func (f *FileStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ExportJSON writes the deduplicated records to dest as JSON lines.
func (f *FileStore) ExportJSON(ctx context.Context, dest string) error {
	records, err := f.Records(ctx, 0)
	if err != nil {
		return err
	}
	return writeJSONLines(dest, records)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) load() ([]domain.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	index := make(map[string]int)
	var records []domain.SessionRecord
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec domain.SessionRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if i, ok := index[rec.ID]; ok {
			records[i] = rec
			continue
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	return records, sc.Err()
}

var _ ports.HistoryRepository = (*FileStore)(nil)
