package pragma

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/jdkato/prose/transform"
	"golang.org/x/net/html"
)

var (
	htmlEscaper       = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")
	titleConverter    = transform.NewTitleConverter(transform.APStyle)
	separatorReplacer = strings.NewReplacer("-", " ", "_", " ")
)

// EscapeHTML escapes s for inclusion in HTML text or attribute values.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// StripTags returns the text content of the HTML fragment s, with tags
// removed and entities decoded.
func StripTags(s string) string {
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			return b.String()
		}
		if tokenType == html.TextToken {
			b.Write(tokenizer.Text())
		}
	}
}

// PageDescription returns the page's meta description: the summary if one
// was written, otherwise the first 240 characters of the content with the
// markup stripped.
func PageDescription(page *Page) string {
	if page.Summary != "" {
		return page.Summary
	}
	text := []rune(StripTags(page.Content))
	if len(text) > 240 {
		text = text[:240]
	}
	return string(text)
}

// SplitTags splits a comma separated tag string, trimming whitespace and
// dropping empty entries.
func SplitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// ExplodeTags renders tags as a comma separated list of links to their tag
// pages.
func ExplodeTags(tags []string) string {
	var b strings.Builder
	for i, tag := range tags {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`<a href="/t/`)
		b.WriteString(tag)
		b.WriteString(`.html">`)
		b.WriteString(tag)
		b.WriteString(`</a>`)
	}
	return b.String()
}

// LegibleDate formats a date stamp as a human readable date in the given
// time zone.
func LegibleDate(stamp int64, location *time.Location) string {
	if location == nil {
		location = time.Local
	}
	return time.Unix(stamp, 0).In(location).Format("2006-01-02 15:04:05")
}

// TitleFromPath derives a page title from a source file name, for pages
// whose front matter doesn't provide one. "my-first-post.txt" becomes "My
// First Post". A purely numeric name yields no title, so date-stamp file
// names don't masquerade as titles.
func TitleFromPath(sourcePath string) string {
	name := filepath.Base(sourcePath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name != "" && strings.Trim(name, "0123456789") == "" {
		return ""
	}
	return titleConverter.Title(separatorReplacer.Replace(name))
}
