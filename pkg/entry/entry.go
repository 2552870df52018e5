package entry

import (
	"strings"
	"time"
)

const (
	// LayoutISO is the canonical day format used for file names and dates.
	LayoutISO = "2006-01-02"

	// LayoutMinute is the created-at format used for every entry after the
	// first one of a day.
	LayoutMinute = "2006-01-02 15:04"
)

// Entry is a single journal record stored inside a day file.
type Entry struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"`
	Created    string   `json:"created"`
	CreatedAt  int64    `json:"createdAtMs"`
	Tags       []string `json:"tags,omitempty"`
	Body       string   `json:"body"`
	SourceFile string   `json:"sourceFile,omitempty"`
}

func New(id, date string, at time.Time, firstOfDay bool, body string, tags []string) *Entry {
	created := date
	if !firstOfDay {
		created = at.Format(LayoutMinute)
	}
	return &Entry{
		ID:        id,
		Date:      date,
		Created:   created,
		CreatedAt: at.UnixMilli(),
		Tags:      NormalizeTags(tags),
		Body:      NormalizeBody(body),
	}
}

// NormalizeBody converts CRLF line endings to LF and trims trailing
// whitespace from the whole body.
func NormalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.TrimRight(body, " \t\n")
}

func (e *Entry) String() string {
	return e.Created + "  " + e.Body
}
