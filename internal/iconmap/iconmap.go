// Package iconmap reads and patches the icon map data file.
//
// The data file holds a single flat JavaScript object literal
// which maps texture IDs to icon names, one entry per line:
//
//	export const iconMap = {
//	  135274: "inv_sword_04",
//	};
//
// The last line containing a closing brace is the end of the object.
package iconmap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Entry is a mapping of a texture ID to an icon name.
type Entry struct {
	ID   int
	Name string
}

// Line returns the entry in the textual form used in the data file, including the line break.
func (e Entry) Line() string {
	return fmt.Sprintf("  %d: \"%s\",\n", e.ID, e.Name)
}

// Map is a mapping of texture IDs to icon names.
type Map map[int]string

// IDs returns the texture IDs in ascending order.
func (m Map) IDs() []int {
	return slices.Sorted(maps.Keys(m))
}

// Entries returns the entries in ascending order of their IDs.
func (m Map) Entries() []Entry {
	entries := make([]Entry, 0, len(m))
	for _, id := range m.IDs() {
		entries = append(entries, Entry{ID: id, Name: m[id]})
	}
	return entries
}

var entryRx = regexp.MustCompile(`(\d+):\s*"([^"]+)"`)

// Parse returns the entries found in a data file.
// Only the first entry on each line is recognized.
// When an ID occurs more than once the last occurrence wins.
func Parse(r io.Reader) (Map, error) {
	m := make(Map)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		match := entryRx.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue // out of range
		}
		m[id] = match[2]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Load returns the entries of the data file at path.
// A missing file is treated like a file without entries.
func Load(path string) (Map, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(Map), nil
	} else if err != nil {
		return nil, fmt.Errorf("load icon map: %w", err)
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load icon map %s: %w", path, err)
	}
	return m, nil
}

// Patch returns the content of a data file with entries inserted
// in front of the line with the closing brace.
// When there is no such line the entries are appended at the end.
// The last non-blank line before the insertion point gets a trailing comma
// unless it already ends with a comma or opens the object.
// New lines use the line break of the closing line.
// All other lines are left untouched.
func Patch(content []byte, entries Map) []byte {
	if len(entries) == 0 {
		return content
	}
	lines := splitLines(content)
	idx := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], "}") {
			idx = i
			break
		}
	}
	for i := idx - 1; i >= 0; i-- {
		s := strings.TrimRightFunc(lines[i], unicode.IsSpace)
		if s == "" {
			continue
		}
		if !strings.HasSuffix(s, ",") && !strings.HasSuffix(s, "{") {
			lines[i] = s + "," + lineBreak(lines[i])
		}
		break
	}
	nl := "\n"
	if idx < len(lines) && lineBreak(lines[idx]) != "" {
		nl = lineBreak(lines[idx])
	}
	if idx > 0 && lineBreak(lines[idx-1]) == "" {
		lines[idx-1] += nl
	}
	var b bytes.Buffer
	for _, l := range lines[:idx] {
		b.WriteString(l)
	}
	for _, e := range entries.Entries() {
		b.WriteString(strings.TrimSuffix(e.Line(), "\n") + nl)
	}
	for _, l := range lines[idx:] {
		b.WriteString(l)
	}
	return b.Bytes()
}

// AddEntries inserts entries into the data file at path and writes it back.
// The file is not touched when there are no entries.
// A missing file is created with an object holding only the new entries.
func AddEntries(path string, entries Map) error {
	if len(entries) == 0 {
		return nil
	}
	perm := fs.FileMode(0o644)
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		content = []byte("export const iconMap = {\n};\n")
	} else if err != nil {
		return fmt.Errorf("add entries: %w", err)
	} else if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}
	if err := os.WriteFile(path, Patch(content, entries), perm); err != nil {
		return fmt.Errorf("add entries: %w", err)
	}
	return nil
}

// splitLines splits s into lines. Each line keeps its line break.
func splitLines(content []byte) []string {
	s := string(content)
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineBreak returns the line break at the end of s, which can be empty.
func lineBreak(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return "\r\n"
	}
	if strings.HasSuffix(s, "\n") {
		return "\n"
	}
	return ""
}
