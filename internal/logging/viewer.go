package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Aman-CERP/tscheck/internal/ui"
)

// followInterval is how often Follow polls for appended lines.
const followInterval = 100 * time.Millisecond

// maxLineSize bounds a single log line; tool output attributes can be long.
const maxLineSize = 1024 * 1024

// LogEntry is one line of the debug log.
type LogEntry struct {
	Time    time.Time
	Level   string
	Msg     string
	Attrs   map[string]any
	Raw     string
	IsValid bool // false when the line is not JSON
}

// ViewerConfig configures the log viewer.
type ViewerConfig struct {
	Level   string         // minimum level to show
	Pattern *regexp.Regexp // only lines matching this, when set
	Styles  *ui.Styles     // nil for plain output
}

// Viewer reads, filters and formats the debug log.
type Viewer struct {
	config ViewerConfig
	out    io.Writer
}

// NewViewer creates a new log viewer writing to out.
func NewViewer(cfg ViewerConfig, out io.Writer) *Viewer {
	return &Viewer{config: cfg, out: out}
}

// Tail returns the matching entries among the last n lines of path.
func (v *Viewer) Tail(path string, n int) ([]LogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var entries []LogEntry
	for _, line := range lines {
		entry := parseLine(line)
		if v.matches(entry) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Follow sends entries appended to path after the call until ctx is done.
// When the file is rotated it switches to the new file at path.
func (v *Viewer) Follow(ctx context.Context, path string, entries chan<- LogEntry) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	f := &follower{viewer: v, reader: bufio.NewReader(file), entries: entries}
	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !f.drain(ctx) {
				return nil
			}
			// After rotation the path names a new file; finish the old one
			// above, then read the new one from its start.
			if next := reopenIfRotated(path, file); next != nil {
				_ = file.Close()
				file = next
				f.reset(file)
				if !f.drain(ctx) {
					return nil
				}
			}
		}
	}
}

type follower struct {
	viewer  *Viewer
	reader  *bufio.Reader
	entries chan<- LogEntry
	partial string
}

func (f *follower) reset(r io.Reader) {
	f.reader = bufio.NewReader(r)
	f.partial = ""
}

// drain sends every complete line read so far. It returns false when ctx
// is cancelled while sending.
func (f *follower) drain(ctx context.Context) bool {
	for {
		chunk, err := f.reader.ReadString('\n')
		if err != nil {
			// keep an incomplete last line for the next tick
			f.partial += chunk
			return true
		}
		line := strings.TrimSuffix(f.partial+chunk, "\n")
		f.partial = ""
		if line == "" {
			continue
		}

		entry := parseLine(line)
		if !f.viewer.matches(entry) {
			continue
		}
		select {
		case f.entries <- entry:
		case <-ctx.Done():
			return false
		}
	}
}

// reopenIfRotated opens path when it no longer refers to current. It returns
// nil while the path is unchanged or not yet recreated.
func reopenIfRotated(path string, current *os.File) *os.File {
	onDisk, err := os.Stat(path)
	if err != nil {
		return nil
	}
	open, err := current.Stat()
	if err == nil && os.SameFile(onDisk, open) {
		return nil
	}
	next, err := os.Open(path)
	if err != nil {
		return nil
	}
	return next
}

// Print writes entries, one per line.
func (v *Viewer) Print(entries []LogEntry) {
	for _, entry := range entries {
		_, _ = fmt.Fprintln(v.out, v.FormatEntry(entry))
	}
}

// FormatEntry renders "15:04:05.000 LEVEL msg key=value ...". Attributes are
// sorted by key. Lines that are not JSON are returned unchanged.
func (v *Viewer) FormatEntry(entry LogEntry) string {
	if !entry.IsValid {
		return entry.Raw
	}

	keys := make([]string, 0, len(entry.Attrs))
	for k := range entry.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(entry.Time.Format("15:04:05.000"))
	sb.WriteString(" ")
	sb.WriteString(v.formatLevel(entry.Level))
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Attrs[k])
	}
	return sb.String()
}

func (v *Viewer) formatLevel(level string) string {
	label := strings.ToUpper(level)
	if len(label) > 5 {
		label = label[:5]
	}
	label = fmt.Sprintf("%-5s", label)

	s := v.config.Styles
	if s == nil {
		return label
	}
	switch parseLevel(level).String() {
	case "DEBUG":
		return s.Dim.Render(label)
	case "WARN":
		return s.Warning.Render(label)
	case "ERROR":
		return s.Error.Render(label)
	default:
		return s.Success.Render(label)
	}
}

func (v *Viewer) matches(entry LogEntry) bool {
	if v.config.Level != "" && entry.IsValid {
		if parseLevel(entry.Level) < parseLevel(v.config.Level) {
			return false
		}
	}
	if v.config.Pattern != nil && !v.config.Pattern.MatchString(entry.Raw) {
		return false
	}
	return true
}

// parseLine decodes a slog JSON record.
func parseLine(line string) LogEntry {
	entry := LogEntry{Raw: line}

	var data map[string]any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		return entry
	}
	entry.IsValid = true

	if t, ok := data["time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			entry.Time = parsed
		}
	}
	entry.Level, _ = data["level"].(string)
	entry.Msg, _ = data["msg"].(string)

	entry.Attrs = make(map[string]any, len(data))
	for k, val := range data {
		switch k {
		case "time", "level", "msg":
		default:
			entry.Attrs[k] = val
		}
	}
	return entry
}
