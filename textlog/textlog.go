// Package textlog saves conversations as numbered plain-text logs and reads
// them back.
package textlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/chat"
)

const (
	filePrefix = "chat_log_"
	fileExt    = ".txt"
)

// ErrMalformed is returned when a log cannot be parsed.
var ErrMalformed = errors.New("malformed chat log")

var roleHeader = regexp.MustCompile(`(?m)^\[(system|user|assistant)\]\n`)

// Name returns the file name of the log with the given index.
func Name(index int) string {
	return filePrefix + strconv.Itoa(index) + fileExt
}

// Writer saves transcripts into Dir.
type Writer struct {
	Dir string

	encode func(io.Writer, []chat.Turn, chat.GenerationConfig) error
}

// Save writes the transcript to the first unused chat_log_N.txt in Dir,
// probing from 0, and returns its path. Dir is created if needed and
// existing logs are never overwritten. A log that fails to write is removed.
func (w Writer) Save(t *chat.Transcript, cfg chat.GenerationConfig) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("textlog: create log dir: %w", err)
	}
	f, path, err := w.create()
	if err != nil {
		return "", err
	}
	if err := w.write(f, t.Turns(), cfg); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("textlog: write %s: %w", path, err)
	}
	return path, nil
}

// write encodes turns into f and closes it.
func (w Writer) write(f *os.File, turns []chat.Turn, cfg chat.GenerationConfig) error {
	encode := w.encode
	if encode == nil {
		encode = Encode
	}
	bw := bufio.NewWriter(f)
	if err := encode(bw, turns, cfg); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (w Writer) create() (*os.File, string, error) {
	for i := 0; ; i++ {
		path := filepath.Join(w.Dir, Name(i))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("textlog: create %s: %w", path, err)
		}
		return f, path, nil
	}
}

// Encode writes the settings header followed by every turn as
// "[role]\n<content>\n\n".
func Encode(w io.Writer, turns []chat.Turn, cfg chat.GenerationConfig) error {
	for _, s := range cfg.Settings() {
		if _, err := fmt.Fprintf(w, "%-18s %s\n", s.Label+":", s.Value); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	for _, t := range turns {
		if _, err := fmt.Fprintf(w, "[%s]\n%s\n\n", t.Role, t.Content); err != nil {
			return err
		}
	}
	return nil
}

// Header holds the generation settings recorded at the top of a log.
type Header struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Streaming   bool
}

// Parse reads a log written by Save. A turn whose content contains a line
// that looks like a role header is split at that line.
func Parse(r io.Reader) (Header, []chat.Turn, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Header{}, nil, fmt.Errorf("textlog: read: %w", err)
	}
	head, body, ok := strings.Cut(string(data), "\n\n")
	if !ok {
		return Header{}, nil, fmt.Errorf("textlog: missing header: %w", ErrMalformed)
	}
	h, err := parseHeader(head)
	if err != nil {
		return Header{}, nil, err
	}
	turns, err := parseTurns(body)
	if err != nil {
		return Header{}, nil, err
	}
	return h, turns, nil
}

func parseHeader(head string) (Header, error) {
	var h Header
	for _, line := range strings.Split(head, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return Header{}, fmt.Errorf("textlog: header line %q: %w", line, ErrMalformed)
		}
		value = strings.TrimSpace(value)
		var err error
		switch key {
		case "Model":
			h.Model = value
		case "Max Tokens":
			h.MaxTokens, err = strconv.Atoi(value)
		case "Temperature":
			h.Temperature, err = strconv.ParseFloat(value, 64)
		case "Streaming Enabled":
			h.Streaming = value == "True"
		}
		if err != nil {
			return Header{}, fmt.Errorf("textlog: header %q: %w", key, ErrMalformed)
		}
	}
	return h, nil
}

// parseTurns splits the body on role header lines. Each turn's content is
// followed by exactly one blank line in the file.
func parseTurns(body string) ([]chat.Turn, error) {
	locs := roleHeader.FindAllStringSubmatchIndex(body, -1)
	if len(locs) == 0 {
		return nil, nil
	}
	if locs[0][0] != 0 {
		return nil, fmt.Errorf("textlog: text before first turn: %w", ErrMalformed)
	}

	turns := make([]chat.Turn, 0, len(locs))
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := body[loc[1]:end]
		content, ok := strings.CutSuffix(segment, "\n\n")
		if !ok {
			return nil, fmt.Errorf("textlog: turn %d not terminated: %w", i, ErrMalformed)
		}
		turns = append(turns, chat.Turn{
			Role:    chat.Role(body[loc[2]:loc[3]]),
			Content: content,
		})
	}
	return turns, nil
}

// Load opens and parses the log at path.
func Load(path string) (Header, []chat.Turn, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("textlog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Entry is a saved log found by List.
type Entry struct {
	Index int
	Path  string
}

// List returns the logs in dir ordered by index. A missing dir yields no
// entries.
func List(dir string) ([]Entry, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	names, err := doublestar.Glob(os.DirFS(dir), filePrefix+"*"+fileExt)
	if err != nil {
		return nil, fmt.Errorf("textlog: list %s: %w", dir, err)
	}

	var entries []Entry
	for _, name := range names {
		n := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExt)
		index, err := strconv.Atoi(n)
		if err != nil || index < 0 {
			continue
		}
		entries = append(entries, Entry{Index: index, Path: filepath.Join(dir, name)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	return entries, nil
}
