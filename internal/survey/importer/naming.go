package importer

import (
	"regexp"
	"strings"
	"time"
)

const importPrefix = "mappings_import_"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// CollectionName derives the per-owner collection for a new import and the
// name shown to users. Names already carrying another owner's prefix are
// re-homed under owner.
func CollectionName(owner, requested string, now time.Time) (name, display string) {
	owner = unsafeName.ReplaceAllString(strings.TrimSpace(owner), "_")
	if owner == "" {
		owner = "shared"
	}
	prefix := importPrefix + owner

	requested = strings.TrimSpace(requested)
	if requested == "" {
		ts := strings.NewReplacer(":", "-", ".", "-").Replace(now.UTC().Format("2006-01-02T15:04:05.000Z"))
		return prefix + "_" + ts, ts
	}

	s := unsafeName.ReplaceAllString(requested, "_")
	switch {
	case strings.HasPrefix(s, prefix+"_") && len(s) > len(prefix)+1:
		return s, s[len(prefix)+1:]
	case strings.HasPrefix(s, importPrefix):
		rest := strings.TrimPrefix(s, importPrefix)
		return prefix + "_" + rest, rest
	default:
		return prefix + "_" + s, s
	}
}
