// Package codec encodes and decodes the delimited entry blocks stored inside
// day files. It is pure text manipulation; all file I/O lives in pkg/store.
package codec

import (
	"path/filepath"
	"strconv"
	"strings"

	"tableflip.dev/daybook/pkg/entry"
)

const (
	StartMarker = "<!--entry-->"
	EndMarker   = "<!--/entry-->"
)

// Block is one decoded entry plus the byte range it occupies in the source
// text, including the trailing blank-line separator. Callers splice on
// [Start, End) so surrounding text and sibling blocks stay byte-identical.
type Block struct {
	Entry *entry.Entry
	Start int
	End   int
}

// DetectEOL reports the dominant line ending style of src so whole-file
// rewrites keep the original convention.
func DetectEOL(src string) string {
	if strings.Contains(src, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// Encode renders one entry as a block using the given line ending. The
// result ends with the blank-line separator that follows every block.
func Encode(e *entry.Entry, eol string) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString(eol)
	}
	line(StartMarker)
	line("id: " + e.ID)
	line("created: " + e.Created)
	line("ts: " + strconv.FormatInt(e.CreatedAt, 10))
	line("tags: " + entry.JoinTags(e.Tags))
	line("")
	for _, bl := range strings.Split(entry.NormalizeBody(e.Body), "\n") {
		line(bl)
	}
	line(EndMarker)
	line("")
	return b.String()
}

// DecodeAll scans src for every entry block, in file order. sourceFile names
// the owning day file; it supplies the entry date and the fallback identity
// for blocks whose header lost its id.
func DecodeAll(src, sourceFile string) []Block {
	date := DateFromFile(sourceFile)
	var blocks []Block

	pos := 0
	for pos < len(src) {
		lineStart, line, next := nextLine(src, pos)
		if strings.TrimRight(line, "\r") != StartMarker {
			pos = next
			continue
		}
		b, ok := decodeBlock(src, lineStart, next, sourceFile, date)
		if !ok {
			pos = next
			continue
		}
		blocks = append(blocks, b)
		pos = b.End
	}
	return blocks
}

// decodeBlock parses one block whose start marker line begins at start and
// whose header begins at pos. Returns ok=false when the end marker never
// shows up, in which case the text is treated as plain prose.
func decodeBlock(src string, start, pos int, sourceFile, date string) (Block, bool) {
	header := make(map[string]string)

	// Header: key: value lines until the first blank line. Lines without a
	// colon and unknown keys are ignored rather than rejected.
	for pos < len(src) {
		_, line, next := nextLine(src, pos)
		line = strings.TrimRight(line, "\r")
		pos = next
		if line == "" {
			break
		}
		k, v, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		header[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	var body []string
	end := -1
	for pos < len(src) {
		_, line, next := nextLine(src, pos)
		if strings.TrimRight(line, "\r") == EndMarker {
			end = next
			break
		}
		body = append(body, strings.TrimRight(line, "\r"))
		pos = next
	}
	if end == -1 {
		return Block{}, false
	}

	// Swallow one trailing blank separator line when present.
	if _, line, next := nextLine(src, end); strings.TrimRight(line, "\r") == "" {
		end = next
	}

	e := &entry.Entry{
		ID:         header["id"],
		Date:       date,
		Created:    header["created"],
		Tags:       entry.SplitTags(header["tags"]),
		Body:       strings.TrimRight(strings.Join(body, "\n"), " \t\n"),
		SourceFile: sourceFile,
	}
	if e.ID == "" {
		e.ID = FallbackID(sourceFile, start)
	}
	if e.Created == "" {
		e.Created = date
	}
	if ts, err := strconv.ParseInt(header["ts"], 10, 64); err == nil {
		e.CreatedAt = ts
	}

	return Block{Entry: e, Start: start, End: end}, true
}

// FallbackID synthesizes an identity for a block whose header lost its id so
// it can still be listed. The offset-derived id does not survive edits made
// outside the store, so update and delete on it are best effort.
func FallbackID(sourceFile string, offset int) string {
	base := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
	return base + "@" + strconv.Itoa(offset)
}

// DateFromFile derives the calendar day from a day file path.
func DateFromFile(sourceFile string) string {
	return strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
}

// nextLine returns the offset of the line beginning at or after pos, the line
// text without its newline, and the offset just past the newline.
func nextLine(src string, pos int) (start int, line string, next int) {
	start = pos
	i := strings.IndexByte(src[pos:], '\n')
	if i < 0 {
		return start, src[pos:], len(src)
	}
	return start, src[pos : pos+i], pos + i + 1
}
