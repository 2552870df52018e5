package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"tableflip.dev/daybook/pkg/codec"
)

func newTestPersistence(t *testing.T, at time.Time) *persistence {
	t.Helper()
	p := &persistence{dataDir: t.TempDir(), now: func() time.Time { return at }}
	return p
}

func TestAddListRoundTrip(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 9, 7, 5, 0, 0, time.Local)
	p := newTestPersistence(t, at)

	e, err := p.Add(ctx, "first thought of the day  \n", []string{" #go ", "go", "notes"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.Created != "2024-03-09" {
		t.Fatalf("first entry of the day should carry a date-only created, got %q", e.Created)
	}

	all := p.List(ctx)
	if len(all) != 1 {
		t.Fatalf("List = %d entries, want 1", len(all))
	}
	got := all[0]
	if got.ID != e.ID || got.Body != "first thought of the day" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Tags, []string{"go", "notes"}) {
		t.Fatalf("tags = %v", got.Tags)
	}

	data, err := os.ReadFile(filepath.Join(p.dataDir, "2024-03-09.md"))
	if err != nil {
		t.Fatalf("read day file: %v", err)
	}
	if !strings.HasPrefix(string(data), "# 2024-03-09\n") {
		t.Fatalf("new day file missing heading: %q", string(data[:20]))
	}
}

func TestAddSecondEntryOfDay(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 9, 7, 5, 0, 0, time.Local)
	p := newTestPersistence(t, at)

	if _, err := p.Add(ctx, "one", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p.now = func() time.Time { return at.Add(90 * time.Minute) }
	e, err := p.Add(ctx, "two", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.Created != "2024-03-09 08:35" {
		t.Fatalf("second entry created = %q", e.Created)
	}
	if len(p.List(ctx)) != 2 {
		t.Fatalf("expected both entries in one day file")
	}
}

func TestAddEmptyBody(t *testing.T) {
	p := newTestPersistence(t, time.Now())
	if _, err := p.Add(context.Background(), "   \n ", nil); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
}

func TestListOrderingAcrossDays(t *testing.T) {
	ctx := context.Background()
	day1 := time.Date(2024, 3, 8, 22, 0, 0, 0, time.Local)
	p := newTestPersistence(t, day1)

	if _, err := p.Add(ctx, "oldest", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p.now = func() time.Time { return day1.Add(30 * time.Minute) }
	if _, err := p.Add(ctx, "middle", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p.now = func() time.Time { return day1.Add(12 * time.Hour) }
	if _, err := p.Add(ctx, "newest", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	all := p.List(ctx)
	if len(all) != 3 {
		t.Fatalf("List = %d entries, want 3", len(all))
	}
	bodies := []string{all[0].Body, all[1].Body, all[2].Body}
	if !reflect.DeepEqual(bodies, []string{"newest", "middle", "oldest"}) {
		t.Fatalf("order = %v", bodies)
	}
	if all[0].Date == all[2].Date {
		t.Fatalf("expected entries spread across two day files")
	}
}

func TestListKeepsFileOrderForEqualTimestamps(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 9, 9, 0, 0, 0, time.Local)
	p := newTestPersistence(t, at)

	if _, err := p.Add(ctx, "written first", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := p.Add(ctx, "written second", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	all := p.List(ctx)
	if len(all) != 2 {
		t.Fatalf("List = %d entries, want 2", len(all))
	}
	if all[0].CreatedAt != all[1].CreatedAt {
		t.Fatalf("timestamps differ: %d vs %d", all[0].CreatedAt, all[1].CreatedAt)
	}
	if all[0].Body != "written first" || all[1].Body != "written second" {
		t.Fatalf("equal timestamps must keep file order, got %q then %q", all[0].Body, all[1].Body)
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t, time.Date(2024, 3, 9, 9, 0, 0, 0, time.Local))

	e, err := p.Add(ctx, "draft", []string{"old"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	ok, err := p.Update(ctx, e.ID, "final text", []string{"#new", "new"})
	if err != nil || !ok {
		t.Fatalf("Update = %v, %v", ok, err)
	}

	all := p.List(ctx)
	if len(all) != 1 {
		t.Fatalf("List = %d entries, want 1", len(all))
	}
	got := all[0]
	if got.ID != e.ID || got.Created != e.Created || got.CreatedAt != e.CreatedAt {
		t.Fatalf("identity not preserved: %+v vs %+v", got, e)
	}
	if got.Body != "final text" || !reflect.DeepEqual(got.Tags, []string{"new"}) {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestUpdateNotFound(t *testing.T) {
	p := newTestPersistence(t, time.Now())
	ok, err := p.Update(context.Background(), "missing", "body", nil)
	if err != nil {
		t.Fatalf("miss should not error: %v", err)
	}
	if ok {
		t.Fatalf("expected not-found")
	}
}

func TestDeleteIsExact(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 9, 9, 0, 0, 0, time.Local)
	p := newTestPersistence(t, at)

	keep, err := p.Add(ctx, "keep me", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	p.now = func() time.Time { return at.Add(time.Minute) }
	gone, err := p.Add(ctx, "delete me", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	path := filepath.Join(p.dataDir, "2024-03-09.md")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	ok, err := p.Delete(ctx, gone.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}

	all := p.List(ctx)
	if len(all) != 1 || all[0].ID != keep.ID {
		t.Fatalf("wrong survivor: %+v", all)
	}

	// Everything except the removed block must be byte-identical.
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var want string
	for _, b := range codec.DecodeAll(string(before), path) {
		if b.Entry.ID == gone.ID {
			want = string(before[:b.Start]) + string(before[b.End:])
		}
	}
	if string(after) != want {
		t.Fatalf("delete disturbed surrounding bytes:\n%q\nwant\n%q", string(after), want)
	}
	if strings.Contains(string(after), "delete me") {
		t.Fatalf("deleted body still present")
	}

	if ok, err := p.Delete(ctx, gone.ID); err != nil || ok {
		t.Fatalf("second delete should be a clean miss, got %v, %v", ok, err)
	}
}

func TestRewriteFailureIsHardError(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t, time.Date(2024, 3, 9, 9, 0, 0, 0, time.Local))

	e, err := p.Add(ctx, "body", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A directory squatting on the temp path makes the write fail after
	// the target has already been matched.
	if err := os.Mkdir(filepath.Join(p.dataDir, "2024-03-09.md.tmp"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if ok, err := p.Update(ctx, e.ID, "new body", nil); err == nil || ok {
		t.Fatalf("Update = %v, %v, want a hard error rather than a miss", ok, err)
	}
	if ok, err := p.Delete(ctx, e.ID); err == nil || ok {
		t.Fatalf("Delete = %v, %v, want a hard error rather than a miss", ok, err)
	}
}

func TestRewriteSurfacesUnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevation on windows")
	}
	ctx := context.Background()
	p := newTestPersistence(t, time.Date(2024, 3, 9, 9, 0, 0, 0, time.Local))

	e, err := p.Add(ctx, "reachable", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A day file that cannot be opened sorts before the target's file.
	broken := filepath.Join(p.dataDir, "2024-03-08.md")
	if err := os.Symlink(filepath.Join(p.dataDir, "missing"), broken); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	if ok, err := p.Update(ctx, e.ID, "new", nil); err == nil || ok {
		t.Fatalf("Update = %v, %v, want an error for the unreadable file", ok, err)
	}
	if ok, err := p.Delete(ctx, e.ID); err == nil || ok {
		t.Fatalf("Delete = %v, %v, want an error for the unreadable file", ok, err)
	}

	// List keeps its skip semantics so the rest of the journal stays visible.
	if got := len(p.List(ctx)); got != 1 {
		t.Fatalf("List = %d entries, want 1", got)
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t, time.Date(2024, 3, 9, 9, 0, 0, 0, time.Local))
	if _, err := p.Add(ctx, "real", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := os.WriteFile(filepath.Join(p.dataDir, "notes.md"), []byte("not a day file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(p.dataDir, "2024-03-10.txt"), []byte("wrong ext"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := len(p.List(ctx)); got != 1 {
		t.Fatalf("List = %d entries, want 1", got)
	}
}

func TestUpdatePreservesCRLF(t *testing.T) {
	ctx := context.Background()
	p := newTestPersistence(t, time.Date(2024, 3, 9, 9, 0, 0, 0, time.Local))

	e, err := p.Add(ctx, "body", nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	path := filepath.Join(p.dataDir, "2024-03-09.md")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	crlf := strings.ReplaceAll(string(data), "\n", "\r\n")
	if err := os.WriteFile(path, []byte(crlf), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ok, err := p.Update(ctx, e.ID, "new body", nil)
	if err != nil || !ok {
		t.Fatalf("Update = %v, %v", ok, err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(strings.ReplaceAll(string(after), "\r\n", ""), "\n") {
		t.Fatalf("update mixed line endings: %q", string(after))
	}
	if !strings.Contains(string(after), "new body") {
		t.Fatalf("update not applied")
	}
}
