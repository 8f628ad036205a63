package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mozillazg/go-pinyin"

	"pocketaria/internal/library"
)

// Field names a searchable part of a song.
type Field string

const (
	FieldTitle       Field = "title"
	FieldRomanized   Field = "title_romanized"
	FieldComposer    Field = "composer"
	FieldArtist      Field = "artist"
	FieldWork        Field = "opera_or_work"
	FieldDescription Field = "description"
	FieldTags        Field = "tags"
	FieldLyrics      Field = "lyrics"
)

// Boosts weights matches per field. Fields absent from the map weigh 1.
var Boosts = map[Field]float64{
	FieldTitle:     2,
	FieldRomanized: 1.5,
	FieldComposer:  1.5,
	FieldLyrics:    0.5,
}

// Document holds the extracted text of one song.
type Document struct {
	ID     string
	Fields map[Field]string
}

// Extract pulls the searchable text out of a song. HTML lyrics are reduced
// to their text content; Han titles gain a romanized companion field.
func Extract(project *library.Project) Document {
	doc := Document{ID: project.ID, Fields: make(map[Field]string)}
	meta := project.Metadata
	set := func(field Field, value string) {
		if value = strings.TrimSpace(value); value != "" {
			doc.Fields[field] = value
		}
	}
	set(FieldTitle, meta.Title)
	set(FieldRomanized, Romanize(meta.Title))
	set(FieldComposer, meta.Composer)
	set(FieldArtist, meta.Artist)
	set(FieldWork, meta.OperaOrWork)
	set(FieldDescription, meta.Description)
	set(FieldTags, strings.Join(meta.Tags, " "))
	if project.Lyrics != nil {
		set(FieldLyrics, LyricsText(project.Lyrics))
	}
	return doc
}

// Romanize returns the toneless pinyin of the Han characters in value, or ""
// when value has none.
func Romanize(value string) string {
	if !ContainsHan(value) {
		return ""
	}
	return strings.Join(pinyin.LazyConvert(value, nil), " ")
}

// LyricsText returns lyrics content as plain text.
func LyricsText(lyrics *library.Lyrics) string {
	if lyrics.Format != library.LyricsHTML {
		return lyrics.Content
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(lyrics.Content))
	if err != nil {
		return lyrics.Content
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})
	return strings.TrimSpace(doc.Text())
}
