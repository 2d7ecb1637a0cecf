// Package errorlog reads the error log the shell hook appends to. Every entry
// starts with a header line of the form "---- 2026-01-03 14:02:11 ----".
package errorlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

const blockMarker = "---- "

var (
	headerRe = regexp.MustCompile(`(?m)^----\s+(\d{4}-\d{2}-\d{2}(?:\s+\d{2}:\d{2}(?::\d{2})?)?)\s+----`)

	// Layouts accepted in block headers and for --since, most specific first.
	Layouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}
)

// ErrInvalidSince is returned for --since values matching none of the layouts.
var ErrInvalidSince = errors.New("invalid --since format (use YYYY-MM-DD or YYYY-MM-DD HH:MM[:SS])")

// Log is an error log file on disk.
type Log struct {
	path string
}

// New returns a Log reading path.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Blocks returns every block in file order. A missing file has no blocks.
func (l *Log) Blocks() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read error log: %w", err)
	}
	return SplitBlocks(string(data)), nil
}

// Select reads the log, applies the filters and keeps the last blocks.
func (l *Log) Select(f domain.ErrorFilter) ([]string, error) {
	blocks, err := l.Blocks()
	if err != nil {
		return nil, err
	}
	blocks, err = Apply(blocks, f)
	if err != nil {
		return nil, err
	}
	return Last(blocks, f.Last), nil
}

// Clear truncates the log, creating it when absent.
func (l *Log) Clear() error {
	if err := os.MkdirAll(filepath.Dir(l.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(l.path, nil, domain.SecureFilePermissions)
}

// Append writes one block with the given header time.
func (l *Log) Append(at time.Time, body string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s%s ----\n%s\n", blockMarker, at.Format(Layouts[0]), strings.TrimRight(body, "\n"))
	return err
}

// SplitBlocks cuts raw log text at every block marker.
func SplitBlocks(data string) []string {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil
	}
	var blocks []string
	for _, part := range strings.Split(data, blockMarker) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		blocks = append(blocks, blockMarker+part)
	}
	return blocks
}

// BlockTime parses the header timestamp of a block.
func BlockTime(block string) (time.Time, bool) {
	m := headerRe.FindStringSubmatch(block)
	if m == nil {
		return time.Time{}, false
	}
	t, err := parseTimestamp(strings.Join(strings.Fields(m[1]), " "))
	return t, err == nil
}

// ParseSince validates a --since value.
func ParseSince(value string) (time.Time, error) {
	t, err := parseTimestamp(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSince, value)
	}
	return t, nil
}

// Apply keeps blocks at or after Since that contain Grep (case-insensitive).
// Blocks without a readable header are dropped when Since is set.
func Apply(blocks []string, f domain.ErrorFilter) ([]string, error) {
	out := blocks
	if f.Since != "" {
		cutoff, err := ParseSince(f.Since)
		if err != nil {
			return nil, err
		}
		var kept []string
		for _, b := range out {
			if t, ok := BlockTime(b); ok && !t.Before(cutoff) {
				kept = append(kept, b)
			}
		}
		out = kept
	}
	if f.Grep != "" {
		needle := strings.ToLower(f.Grep)
		var kept []string
		for _, b := range out {
			if strings.Contains(strings.ToLower(b), needle) {
				kept = append(kept, b)
			}
		}
		out = kept
	}
	return out, nil
}

// Last returns the final n blocks; n below one counts as one.
func Last(blocks []string, n int) []string {
	if n < 1 {
		n = 1
	}
	if len(blocks) > n {
		return blocks[len(blocks)-n:]
	}
	return blocks
}

func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range Layouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

var _ ports.ErrorLog = (*Log)(nil)
