// Package content normalizes post bodies to markdown and derives excerpts.
package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ExcerptLength is the number of runes kept by Excerpt.
const ExcerptLength = 150

// Common block and inline tags. Text with a stray "<" is not HTML.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|u|strong|em|a|ul|ol|li|h[1-6]|blockquote|pre|code|img)[\s>/]`)

var (
	markdownNoise = regexp.MustCompile("\\]\\([^)]*\\)|!\\[|[#*_`>~\\[\\]]+")
	whitespace    = regexp.MustCompile(`\s+`)
)

// ContainsHTML reports whether s looks like HTML markup.
func ContainsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// Normalize returns the markdown form of a post body. Bodies pasted from a rich
// text editor arrive as HTML and are converted. If conversion fails the trimmed
// input is kept.
func Normalize(body string) string {
	body = strings.TrimSpace(body)
	if body == "" || !ContainsHTML(body) {
		return body
	}

	markdown, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return body
	}
	return strings.TrimSpace(markdown)
}

// Excerpt returns the first ExcerptLength runes of the body as plain text,
// with an ellipsis when it was cut.
func Excerpt(body string) string {
	text := Normalize(body)
	text = markdownNoise.ReplaceAllString(text, "")
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:ExcerptLength])) + "..."
}
