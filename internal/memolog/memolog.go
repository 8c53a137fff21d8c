// Package memolog parses and rewrites the memo blob stored on a member.
//
// The memo column is a single text field holding zero or more entries
// joined by a blank line. The canonical entry form is:
//
//	[2023-11-05 14:30] 새가족 환영 심방
//
// Entries without a recognizable bracketed timestamp are legacy free text
// and pass through unlabeled. Order is source order; the convention is
// prepend-on-add, so index 0 is the newest entry. Every mutation rewrites
// the whole blob — the external schema has no per-entry rows.
package memolog

import (
	"regexp"
	"strings"
	"time"
)

// StampLayout is the timestamp format written for new entries.
const StampLayout = "2006-01-02 15:04"

// delimiter separates entries in the blob.
const delimiter = "\n\n"

// entryPattern matches `[timestamp] content`. (?s) lets content span the
// single newlines an entry may contain.
var entryPattern = regexp.MustCompile(`(?s)^\[([^\[\]]+)\]\s*(.*)$`)

// blankRun matches newline runs that would read back as entry boundaries.
var blankRun = regexp.MustCompile(`\n[ \t\r]*(\n[ \t\r]*)+`)

// flatten collapses blank-line runs inside content to a single newline,
// keeping one entry's text from splitting into several on the next Parse.
func flatten(content string) string {
	return blankRun.ReplaceAllString(content, "\n")
}

// Entry is one parsed memo entry. Timestamp is empty for legacy entries
// that were written without a bracketed stamp.
type Entry struct {
	Timestamp string `json:"timestamp,omitempty"`
	Content   string `json:"content"`
}

// Parse splits a memo blob into ordered entries. Empty segments are
// discarded; whitespace is trimmed.
func Parse(blob string) []Entry {
	entries := []Entry{}
	for _, segment := range strings.Split(blob, delimiter) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if m := entryPattern.FindStringSubmatch(segment); m != nil {
			entries = append(entries, Entry{
				Timestamp: strings.TrimSpace(m[1]),
				Content:   strings.TrimSpace(m[2]),
			})
			continue
		}
		entries = append(entries, Entry{Content: segment})
	}
	return entries
}

// Render joins entries back into a blob. Inverse of Parse for canonical
// entries.
func Render(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.format())
	}
	return strings.Join(parts, delimiter)
}

func (e Entry) format() string {
	if e.Timestamp == "" {
		return e.Content
	}
	return "[" + e.Timestamp + "] " + e.Content
}

// Append prepends a freshly-stamped entry and returns the new blob.
// Blank content leaves the blob unchanged.
func Append(blob, content string, now time.Time) string {
	content = flatten(strings.TrimSpace(content))
	if content == "" {
		return blob
	}
	entry := Entry{Timestamp: now.Format(StampLayout), Content: content}
	entries := append([]Entry{entry}, Parse(blob)...)
	return Render(entries)
}

// Update replaces the content of the entry at index, preserving its
// original timestamp if one existed, else stamping now. Out-of-range
// indexes are a no-op.
func Update(blob string, index int, content string, now time.Time) string {
	entries := Parse(blob)
	if index < 0 || index >= len(entries) {
		return blob
	}
	content = flatten(strings.TrimSpace(content))
	if content == "" {
		return blob
	}
	if entries[index].Timestamp == "" {
		entries[index].Timestamp = now.Format(StampLayout)
	}
	entries[index].Content = content
	return Render(entries)
}

// Remove excludes the entry at index and returns the new blob.
// Out-of-range indexes are a no-op.
func Remove(blob string, index int) string {
	entries := Parse(blob)
	if index < 0 || index >= len(entries) {
		return blob
	}
	return Render(append(entries[:index], entries[index+1:]...))
}
