package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/daybook/pkg/codec"
	"tableflip.dev/daybook/pkg/entry"
)

// ErrEmptyBody rejects add/update calls whose body trims to nothing.
var ErrEmptyBody = errors.New("store: entry body required")

// Persistence defines the persistence contract for journal entries.
//
// List never fails: unreadable day files are skipped so one bad file cannot
// hide the rest of the journal. Update and Delete report a miss as (false,
// nil); an error means a day file could not be read or the matched block's
// rewrite failed.
type Persistence interface {
	List(ctx context.Context) []*entry.Entry
	Add(ctx context.Context, body string, tags []string) (*entry.Entry, error)
	Update(ctx context.Context, id, body string, tags []string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence over the configured data directory.
func Load(cfg *Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if cfg.DataDir == "" {
		return nil, errors.New("store: data dir required")
	}
	return &persistence{dataDir: cfg.DataDir, now: time.Now}, nil
}

type persistence struct {
	dataDir string
	now     func() time.Time
}

var dayFilePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.md$`)

// dayFiles enumerates day files ascending by name, which for the ISO date
// naming is also ascending by calendar day.
func (p *persistence) dayFiles() ([]string, error) {
	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure data dir: %w", err)
	}
	dirents, err := os.ReadDir(p.dataDir)
	if err != nil {
		return nil, fmt.Errorf("store: read data dir: %w", err)
	}
	files := make([]string, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() || !dayFilePattern.MatchString(d.Name()) {
			continue
		}
		files = append(files, filepath.Join(p.dataDir, d.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (p *persistence) List(ctx context.Context) []*entry.Entry {
	files, err := p.dayFiles()
	if err != nil {
		fmt.Fprintf(os.Stderr, "store: %s\n", err)
		return []*entry.Entry{}
	}

	all := make([]*entry.Entry, 0)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: skipping %s: %s\n", path, err)
			continue
		}
		for _, b := range codec.DecodeAll(string(data), path) {
			all = append(all, b.Entry)
		}
	}

	// Newest first; the stable sort keeps file order for equal sort keys.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt > all[j].CreatedAt
	})
	return all
}

func (p *persistence) Add(ctx context.Context, body string, tags []string) (*entry.Entry, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}
	if err := os.MkdirAll(p.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure data dir: %w", err)
	}

	now := p.now()
	date := now.Format(entry.LayoutISO)
	path := filepath.Join(p.dataDir, date+".md")

	existing, err := os.ReadFile(path)
	firstOfDay := false
	switch {
	case errors.Is(err, os.ErrNotExist):
		firstOfDay = true
	case err != nil:
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	e := entry.New(uuid.NewString(), date, now, firstOfDay, body, tags)
	e.SourceFile = path

	eol := codec.DetectEOL(string(existing))
	var b strings.Builder
	if firstOfDay {
		b.WriteString("# " + date + eol + eol)
	} else if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteString(eol)
	}
	b.WriteString(codec.Encode(e, eol))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		return nil, fmt.Errorf("store: append %s: %w", path, err)
	}
	return e, nil
}

func (p *persistence) Update(ctx context.Context, id, body string, tags []string) (bool, error) {
	if strings.TrimSpace(body) == "" {
		return false, ErrEmptyBody
	}
	return p.rewrite(id, func(b codec.Block, eol string) string {
		e := b.Entry
		e.Body = body
		e.Tags = entry.NormalizeTags(tags)
		return codec.Encode(e, eol)
	})
}

func (p *persistence) Delete(ctx context.Context, id string) (bool, error) {
	return p.rewrite(id, nil)
}

// rewrite scans day files ascending for the first block matching id and
// splices in the replacement (or nothing, for delete). Ids are assumed
// unique across the store, so the scan stops at the first hit.
func (p *persistence) rewrite(id string, replace func(codec.Block, string) string) (bool, error) {
	files, err := p.dayFiles()
	if err != nil {
		return false, err
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			// Unlike List, a mutating scan must not mask a broken file
			// as a not-found.
			return false, fmt.Errorf("store: read %s: %w", path, err)
		}
		src := string(data)
		for _, b := range codec.DecodeAll(src, path) {
			if b.Entry.ID != id {
				continue
			}
			replacement := ""
			if replace != nil {
				replacement = replace(b, codec.DetectEOL(src))
			}
			out := src[:b.Start] + replacement + src[b.End:]
			if err := writeFile(path, out); err != nil {
				// The match was found; the caller must hear about the
				// failed write rather than a not-found.
				return false, fmt.Errorf("store: rewrite %s: %w", path, err)
			}
			return true, nil
		}
	}
	return false, nil
}

func writeFile(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
