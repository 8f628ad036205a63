// Package search extracts searchable fields from songs and provides a small
// in-memory full-text index over them.
//
// Text is folded before it is compared: case is folded, diacritics are
// stripped and whitespace is collapsed, so "Dvořák" and "dvorak" match.
// Han-script titles also carry a romanized key built with go-pinyin so a
// title can be found by its pinyin spelling.
//
// The index supports prefix and bounded fuzzy term matches, with title and
// composer matches weighted above description, tag and lyric matches. Fold
// is shared with the store, which keeps folded title and composer columns for
// substring filtering.
package search
