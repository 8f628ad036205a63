package exchange

import (
	"strings"
	"time"
)

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// ProjectFileName suggests an export file name for a song title. Unsafe
// path characters are replaced; an empty title falls back to "project".
func ProjectFileName(title string) string {
	name := strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(title)))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = "project"
	}
	return name + ".json"
}

// LibraryFileName suggests an export file name for a whole library.
func LibraryFileName(at time.Time) string {
	return "pocket-aria-library-" + at.Format("2006-01-02") + ".json"
}
