package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"pocketaria/internal/library"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const labelWidth = 16

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(s, color string, enabled bool) string {
	if !enabled || color == "" {
		return s
	}
	return color + s + ansiReset
}

// printField writes an aligned "label: value" line, skipping empty values.
func printField(out io.Writer, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(out, "  %-*s %s\n", labelWidth, label+":", value)
}

func printSection(out io.Writer, title string, color bool) {
	fmt.Fprintln(out, colorize("== "+title+" ==", ansiBlue, color))
}

func formatBytes(n int) string {
	return humanize.Bytes(uint64(n))
}

func formatCreated(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return humanize.Time(time.UnixMilli(ms))
}

func formatSeconds(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(10 * time.Millisecond)
	return d.String()
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// songRows builds the table shown by song list and search.
func songRows(projects []*library.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.ID,
			p.Metadata.Title,
			orDash(p.Metadata.Composer),
			orDash(string(p.Metadata.Genre)),
			orDash(string(p.Metadata.VoiceType)),
			fmt.Sprintf("%d", len(p.Scores)),
			formatBytes(int(p.PayloadBytes())),
			formatCreated(p.Metadata.CreatedAt),
		})
	}
	return rows
}

// songFooter totals the payload column under a song table.
func songFooter(projects []*library.Project) []string {
	var total int64
	for _, p := range projects {
		total += p.PayloadBytes()
	}
	label := fmt.Sprintf("%d songs", len(projects))
	if len(projects) == 1 {
		label = "1 song"
	}
	return []string{label, "", "", "", "", "", formatBytes(int(total)), ""}
}

var songHeaders = []string{"ID", "Title", "Composer", "Genre", "Voice", "Scores", "Payload", "Created"}

var songAligns = []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
