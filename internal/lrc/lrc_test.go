package lrc_test

import (
	"math"
	"reflect"
	"testing"

	"pocketaria/internal/library"
	"pocketaria/internal/lrc"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"[00:00.00]", 0, true},
		{"[01:02.50]", 62.5, true},
		{" [10:59.99] ", 659.99, true},
		{"[1:02.50]", 0, false},
		{"[01:02]", 0, false},
		{"01:02.50", 0, false},
		{"[01:02.50] text", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := lrc.ParseTimestamp(tc.input)
		if ok != tc.ok || math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseTimestamp(%q) = %v, %v; want %v, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "[00:00.00]"},
		{62.5, "[01:02.50]"},
		{59.999, "[01:00.00]"},
		{12.346, "[00:12.35]"},
		{3600, "[60:00.00]"},
		{-3, "[00:00.00]"},
	}
	for _, tc := range cases {
		if got := lrc.FormatTimestamp(tc.seconds); got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseContentSplitsTags(t *testing.T) {
	content := "[00:12.50]  Voi che sapete\r\nche cosa è amor\n\n[00:20.00]donne, vedete"
	plain, stamps := lrc.ParseContent(content)

	wantPlain := "Voi che sapete\nche cosa è amor\n\ndonne, vedete"
	if plain != wantPlain {
		t.Fatalf("plain = %q, want %q", plain, wantPlain)
	}
	wantStamps := []library.LrcTimestamp{{LineIndex: 0, Timestamp: 12.5}, {LineIndex: 3, Timestamp: 20}}
	if !reflect.DeepEqual(stamps, wantStamps) {
		t.Fatalf("stamps = %+v, want %+v", stamps, wantStamps)
	}
}

func TestFormatContentRoundTrip(t *testing.T) {
	plain := "first\nsecond\nthird"
	stamps := []library.LrcTimestamp{{LineIndex: 2, Timestamp: 9.5}, {LineIndex: 0, Timestamp: 1.25}, {LineIndex: 7, Timestamp: 99}}

	formatted := lrc.FormatContent(plain, stamps)
	if formatted != "[00:01.25]first\nsecond\n[00:09.50]third" {
		t.Fatalf("unexpected formatted content %q", formatted)
	}
	gotPlain, gotStamps := lrc.ParseContent(formatted)
	if gotPlain != plain {
		t.Fatalf("plain changed: %q", gotPlain)
	}
	want := []library.LrcTimestamp{{LineIndex: 0, Timestamp: 1.25}, {LineIndex: 2, Timestamp: 9.5}}
	if !reflect.DeepEqual(gotStamps, want) {
		t.Fatalf("timestamps changed: %+v", gotStamps)
	}
}

func TestActiveLine(t *testing.T) {
	stamps := []library.LrcTimestamp{
		{LineIndex: 2, Timestamp: 30},
		{LineIndex: 0, Timestamp: 10},
		{LineIndex: 1, Timestamp: 20},
	}
	cases := []struct {
		now  float64
		want int
	}{
		{0, -1},
		{9.99, -1},
		{10, 0},
		{25, 1},
		{30, 2},
		{500, 2},
	}
	for _, tc := range cases {
		if got := lrc.ActiveLine(tc.now, stamps); got != tc.want {
			t.Fatalf("ActiveLine(%v) = %d, want %d", tc.now, got, tc.want)
		}
	}
	if got := lrc.ActiveLine(5, nil); got != -1 {
		t.Fatalf("expected -1 without timestamps, got %d", got)
	}
	if stamps[0].LineIndex != 2 {
		t.Fatal("ActiveLine reordered its input")
	}
}
