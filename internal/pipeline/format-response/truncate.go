// internal/pipeline/format-response/truncate.go
package formatresponse

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxMessageLength is the transport's maximum outgoing payload.
	MaxMessageLength = 4096

	// truncationMargin leaves room for the ellipsis marker at the cut point.
	truncationMargin = 20

	// ItemSeparator joins rendered records and is the preferred cut boundary.
	ItemSeparator = "\n\n---\n\n"

	// EllipsisMarker is appended to a shortened reply.
	EllipsisMarker = "\n\n[...]✂️"
)

// Truncate cuts text at the last record boundary at or before limit minus a
// safety margin, falling back to a raw cut when no boundary exists in range,
// and appends the ellipsis marker. The second return reports whether the
// text was shortened; callers send a follow-up notice when it was. The
// returned string never exceeds limit.
func Truncate(text string, limit int) (string, bool) {
	if len(text) <= limit {
		return text, false
	}

	cut := strings.LastIndex(text[:limit-truncationMargin], ItemSeparator)
	if cut == -1 {
		// Raw cut: back up to a rune boundary so the emoji-heavy rendering
		// is never split mid-rune.
		cut = limit - truncationMargin
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
	}
	return text[:cut] + EllipsisMarker, true
}
