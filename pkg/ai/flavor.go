package ai

import (
	"path/filepath"
	"strings"
)

// Flavor selects the invocation convention for an AI CLI binary.
type Flavor int

const (
	// FlavorSession is the structured convention: prompts go to stdin, the
	// reply streams back as newline-delimited JSON events, and a thread
	// identifier in the stream lets later turns resume server-side memory.
	FlavorSession Flavor = iota

	// FlavorPrint is the simple convention: prompt in, plain text out, no
	// resumable state between turns.
	FlavorPrint
)

func (f Flavor) String() string {
	if f == FlavorPrint {
		return "print"
	}
	return "session"
}

// DetectFlavor picks a convention from the executable's file name. This is a
// heuristic, not a negotiation: unrecognized binaries get the structured
// convention.
func DetectFlavor(cliPath string) Flavor {
	base := strings.ToLower(filepath.Base(cliPath))
	if strings.Contains(base, "gemini") {
		return FlavorPrint
	}
	return FlavorSession
}
