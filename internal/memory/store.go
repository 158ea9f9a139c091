// Package memory keeps the learning patterns inferred from past study sessions.
// Entries live in an append-only JSON lines file, one record per line.
package memory

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"study-buddy/internal/helper"
)

const timeLayout = "2006-01-02 15:04:05"

// Entry is one inferred learning pattern
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Pattern   string    `json:"pattern"`
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Timestamp.Format(timeLayout), e.Pattern)
}

// Store is the append-only log of learning patterns
type Store struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
	now     func() time.Time
}

// Open loads the log at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read memory %s: %w", s.path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(text), &e); err != nil || e.Pattern == "" {
			log.Warn().Str("file", s.path).Int("line", line).Msg("Skipping corrupt memory entry")
			continue
		}
		s.entries = append(s.entries, e)
	}
	return scanner.Err()
}

// Append records pattern. Blank patterns are ignored and return ok=false.
func (s *Store) Append(pattern string) (entry Entry, ok bool, err error) {
	pattern = NormalizePattern(pattern)
	if pattern == "" {
		return Entry{}, false, nil
	}

	id, err := helper.GenerateUUID()
	if err != nil {
		return Entry{}, false, err
	}
	entry = Entry{ID: id, Timestamp: s.now().UTC().Truncate(time.Second), Pattern: pattern}

	line, err := json.Marshal(entry)
	if err != nil {
		return Entry{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := helper.CreateFolder(dir); err != nil {
			return Entry{}, false, err
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Entry{}, false, fmt.Errorf("open memory %s: %w", s.path, err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return Entry{}, false, fmt.Errorf("append memory: %w", err)
	}

	s.entries = append(s.entries, entry)
	log.Debug().Str("id", entry.ID).Str("pattern", entry.Pattern).Msg("Recorded learning pattern")
	return entry, true, nil
}

// Entries returns a copy of all entries, oldest first
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Render formats the log as one "[timestamp] pattern" line per entry, for prompts and display
func (s *Store) Render() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]string, len(s.entries))
	for i, e := range s.entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// NormalizePattern trims model output and maps "no pattern" answers to the empty string
func NormalizePattern(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, "\"'`")
	p = strings.TrimSpace(p)
	switch strings.ToLower(p) {
	case "", "empty string", "none", "n/a":
		return ""
	}
	return p
}
