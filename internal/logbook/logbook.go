package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook keeps the review-session journal: which guideline was
// opened, what was saved, and every failure the notification banner was
// too short-lived to explain. Recovered parse failures land here too;
// they are never surfaced to the reviewer.
type Logbook struct {
	path string
	mu   sync.Mutex
}

// New creates a logbook that writes to the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Logbook{path: path}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single entry to the logbook. Journal writes are
// best-effort; a full disk must never break the review session.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s %-5s %s\n",
		time.Now().UTC().Format(time.RFC3339),
		string(level),
		strings.TrimSpace(message),
	)
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Tail returns up to maxLines of the most recent entries, for the log
// panel at the bottom of the dashboard. A long review session can grow
// the journal without bound, so only a ring of the last maxLines is
// ever held in memory.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	ring := make([]string, 0, maxLines)
	next := 0
	wrapped := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if len(ring) < maxLines {
			ring = append(ring, scanner.Text())
			continue
		}
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		wrapped = true
	}
	if len(ring) == 0 {
		return nil
	}
	if !wrapped {
		return ring
	}
	// Oldest surviving entry sits at next.
	out := make([]string, 0, maxLines)
	out = append(out, ring[next:]...)
	out = append(out, ring[:next]...)
	return out
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}

// GuidelineLog is a journal view scoped to one guideline. A session
// that bounces between roster entries tags every entry with the
// guideline it concerns, so the journal stays greppable per guideline.
type GuidelineLog struct {
	lb *Logbook
	id string
}

// Guideline returns a scoped view tagging entries with the guideline id.
func (l *Logbook) Guideline(id string) *GuidelineLog {
	return &GuidelineLog{lb: l, id: id}
}

func (g *GuidelineLog) append(level Level, format string, args ...any) {
	if g == nil {
		return
	}
	g.lb.Append(level, fmt.Sprintf("[%s] %s", g.id, fmt.Sprintf(format, args...)))
}

// Info appends a scoped informational entry.
func (g *GuidelineLog) Info(format string, args ...any) {
	g.append(LevelInfo, format, args...)
}

// Warn appends a scoped warning entry.
func (g *GuidelineLog) Warn(format string, args ...any) {
	g.append(LevelWarn, format, args...)
}

// Error appends a scoped error entry.
func (g *GuidelineLog) Error(format string, args ...any) {
	g.append(LevelError, format, args...)
}
