// Package notify is the user-facing notification sink: the CLI analog of the
// toast messages the catalog UI shows after every action.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
	Warn(msg string)
}

// Console prints notifications to Out (stderr by default).
type Console struct {
	Out io.Writer
}

func NewConsole() *Console {
	return &Console{Out: os.Stderr}
}

func (c *Console) print(prefix, msg string) {
	out := c.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "%s %s\n", prefix, msg)
}

func (c *Console) Success(msg string) { c.print("✅", msg) }
func (c *Console) Error(msg string)   { c.print("❌", msg) }
func (c *Console) Info(msg string)    { c.print("ℹ️ ", msg) }
func (c *Console) Warn(msg string)    { c.print("⚠️ ", msg) }

// Entry is one recorded notification.
type Entry struct {
	Level   Level
	Message string
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
	r.mu.Unlock()
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }
func (r *Recorder) Warn(msg string)    { r.add(LevelWarn, msg) }

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Last returns the most recent entry, or a zero Entry when empty.
func (r *Recorder) Last() Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}
	}
	return r.entries[len(r.entries)-1]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}
