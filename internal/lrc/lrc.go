package lrc

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"pocketaria/internal/library"
)

var (
	timestampPattern = regexp.MustCompile(`^\[(\d{2}):(\d{2})\.(\d{2})\]$`)
	linePrefix       = regexp.MustCompile(`^\[(\d{2}):(\d{2})\.(\d{2})\]`)
)

// ParseTimestamp converts "[MM:SS.xx]" into seconds.
func ParseTimestamp(value string) (float64, bool) {
	match := timestampPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	return fromParts(match[1], match[2], match[3])
}

func fromParts(mm, ss, cs string) (float64, bool) {
	minutes, errM := strconv.Atoi(mm)
	seconds, errS := strconv.Atoi(ss)
	centis, errC := strconv.Atoi(cs)
	if errM != nil || errS != nil || errC != nil {
		return 0, false
	}
	return float64(minutes*60+seconds) + float64(centis)/100, true
}

// FormatTimestamp renders seconds as "[MM:SS.xx]", rounding to the nearest
// centisecond. Negative values clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds*100 + 0.5)
	minutes := total / 6000
	total %= 6000
	return fmt.Sprintf("[%02d:%02d.%02d]", minutes, total/100, total%100)
}

// ParseContent splits LRC text into plain lyrics and per-line timestamps.
// Tagged lines lose their tag and surrounding whitespace; other lines are
// kept verbatim.
func ParseContent(content string) (string, []library.LrcTimestamp) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	plain := make([]string, len(lines))
	var stamps []library.LrcTimestamp
	for i, line := range lines {
		match := linePrefix.FindStringSubmatch(line)
		if match == nil {
			plain[i] = line
			continue
		}
		if seconds, ok := fromParts(match[1], match[2], match[3]); ok {
			stamps = append(stamps, library.LrcTimestamp{LineIndex: i, Timestamp: seconds})
		}
		plain[i] = strings.TrimSpace(line[len(match[0]):])
	}
	return strings.Join(plain, "\n"), stamps
}

// FormatContent prefixes each timestamped line of plain with its tag.
// Timestamps pointing past the last line are ignored; when a line has
// several timestamps the last one wins.
func FormatContent(plain string, stamps []library.LrcTimestamp) string {
	byLine := make(map[int]float64, len(stamps))
	for _, ts := range stamps {
		byLine[ts.LineIndex] = ts.Timestamp
	}
	lines := strings.Split(plain, "\n")
	for i, line := range lines {
		if seconds, ok := byLine[i]; ok {
			lines[i] = FormatTimestamp(seconds) + line
		}
	}
	return strings.Join(lines, "\n")
}

// ActiveLine returns the line index to highlight at playback position now:
// the line of the latest timestamp not after now, or -1 before the first.
func ActiveLine(now float64, stamps []library.LrcTimestamp) int {
	if len(stamps) == 0 {
		return -1
	}
	sorted := slices.Clone(stamps)
	slices.SortStableFunc(sorted, func(a, b library.LrcTimestamp) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Timestamp <= now {
			return sorted[i].LineIndex
		}
	}
	return -1
}
