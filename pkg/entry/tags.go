package entry

import "strings"

// NormalizeTags cleans up user-provided tags: the optional leading # marker
// is stripped, internal whitespace collapses to single spaces, empties are
// dropped, and duplicates collapse to the first occurrence.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		t = strings.TrimPrefix(t, "#")
		t = strings.Join(strings.Fields(t), " ")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// JoinTags renders a tag list for the block header.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// SplitTags parses a comma-joined tag header value.
func SplitTags(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(v, ","))
}
