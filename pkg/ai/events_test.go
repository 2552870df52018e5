package ai

import "testing"

func TestEventScannerSplitChunks(t *testing.T) {
	sc := &eventScanner{}
	sc.Feed([]byte(`{"type":"system","subtype":"init","sess`))
	sc.Feed([]byte(`ion_id":"t-42"}` + "\n" + `{"type":"result","res`))
	sc.Feed([]byte(`ult":"done","is_error":false}`))
	sc.Flush()

	if sc.ThreadID() != "t-42" {
		t.Fatalf("thread id = %q", sc.ThreadID())
	}
	if sc.Result() != "done" {
		t.Fatalf("result = %q", sc.Result())
	}
}

func TestEventScannerIgnoresGarbage(t *testing.T) {
	sc := &eventScanner{}
	sc.Feed([]byte("not json\n{broken\n\n"))
	sc.Flush()
	if sc.SawEvent() {
		t.Fatalf("garbage should not count as events")
	}
	if sc.ThreadID() != "" || sc.Result() != "" {
		t.Fatalf("unexpected capture: %q %q", sc.ThreadID(), sc.Result())
	}
}

func TestEventScannerErrorResultIgnored(t *testing.T) {
	sc := &eventScanner{}
	sc.Feed([]byte(`{"type":"result","result":"bad","is_error":true}` + "\n"))
	if sc.Result() != "" {
		t.Fatalf("error results must not become answers")
	}
	if !sc.SawEvent() {
		t.Fatalf("a decoded event should still count as structured output")
	}
}

func TestDetectFlavor(t *testing.T) {
	cases := map[string]Flavor{
		"/usr/local/bin/claude": FlavorSession,
		"/opt/homebrew/gemini":  FlavorPrint,
		"Gemini.exe":            FlavorPrint,
		"/usr/bin/mockcli":      FlavorSession,
	}
	for path, want := range cases {
		if got := DetectFlavor(path); got != want {
			t.Errorf("DetectFlavor(%q) = %v, want %v", path, got, want)
		}
	}
}
