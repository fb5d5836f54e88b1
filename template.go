package pragma

import (
	"strconv"
	"strings"
)

const (
	loopMarker    = "<!-- LOOP tags -->"
	endLoopMarker = "<!-- END LOOP -->"
	ifMarker      = "<!-- IF "
	endIfMarker   = "<!-- END IF -->"
)

// conditionNames lists the conditions templates may test, in the order
// they are resolved.
var conditionNames = []string{"has_navigation", "has_tags", "has_prev", "has_next"}

// Tag pairs a tag name with the URL of its tag page.
type Tag struct {
	Name string
	URL  string
}

// TemplateData is the projection of one page and its site that the
// template engine substitutes into a template.
type TemplateData struct {
	// Title of the page.
	Title string

	// Date is the page's date, already formatted for display.
	Date string

	// Icon is the page's icon file name.
	Icon string

	// Content is the page's rendered HTML.
	Content string

	// PostURL is the page's permalink.
	PostURL string

	// PrevURL is the relative URL of the newer neighboring post, empty at
	// the newest post.
	PrevURL string

	// NextURL is the relative URL of the older neighboring post, empty at
	// the oldest post.
	NextURL string

	// PrevTitle is the newer neighboring post's title, for navigation links
	// that name the post they point at.
	PrevTitle string

	// NextTitle is the older neighboring post's title.
	NextTitle string

	// Description is the page's meta description.
	Description string

	// Tags are the page's tags with their tag page URLs.
	Tags []Tag

	// HasTags reports whether the page has any tags.
	HasTags bool

	// HasPrev reports whether a newer post exists.
	HasPrev bool

	// HasNext reports whether an older post exists.
	HasNext bool
}

// NewTemplateData projects page and site into the values the template
// engine substitutes.
func NewTemplateData(site *Site, page *Page) TemplateData {
	data := TemplateData{
		Title:       page.Title,
		Icon:        page.Icon,
		Content:     page.Content,
		PostURL:     site.PostURL(page),
		Description: PageDescription(page),
	}
	if page.DateStamp > 0 {
		data.Date = LegibleDate(page.DateStamp, site.Location)
	}
	if page.Prev != nil {
		data.HasPrev = true
		data.PrevURL = page.Prev.Slug() + ".html"
		data.PrevTitle = page.Prev.Title
	}
	if page.Next != nil {
		data.HasNext = true
		data.NextURL = page.Next.Slug() + ".html"
		data.NextTitle = page.Next.Title
	}
	for _, tag := range page.Tags {
		data.Tags = append(data.Tags, Tag{Name: tag, URL: "/t/" + tag + ".html"})
	}
	data.HasTags = len(data.Tags) > 0
	return data
}

// RenderTemplate runs the template passes in order: loop expansion, then
// conditionals, then token substitution. The input template is never
// modified and rendering the result again changes nothing.
func RenderTemplate(template string, data TemplateData) string {
	template = ExpandLoops(template, data.Tags)
	template = ResolveConditionals(template, data)
	return ReplaceTokens(template, data)
}

// ExpandLoops expands the first <!-- LOOP tags --> ... <!-- END LOOP -->
// block by repeating its body once per tag, substituting {TAG} and
// {TAG_URL} and joining the copies with ", ". An empty tag list drops the
// body. Templates without a complete marker pair are returned unchanged.
func ExpandLoops(template string, tags []Tag) string {
	start := strings.Index(template, loopMarker)
	if start < 0 {
		return template
	}
	rest := template[start+len(loopMarker):]
	end := strings.Index(rest, endLoopMarker)
	if end < 0 {
		return template
	}
	body := rest[:end]
	var b strings.Builder
	b.WriteString(template[:start])
	for i, tag := range tags {
		b.WriteString(strings.NewReplacer("{TAG}", tag.Name, "{TAG_URL}", tag.URL).Replace(body))
		if i < len(tags)-1 {
			b.WriteString(", ")
		}
	}
	b.WriteString(rest[end+len(endLoopMarker):])
	return b.String()
}

// ResolveConditionals resolves <!-- IF condition --> ... <!-- END IF -->
// blocks against data: a true condition keeps the block's content, a false
// one removes it. Each condition is resolved once per pass and the passes
// repeat three times, which also settles blocks nested inside other
// blocks.
func ResolveConditionals(template string, data TemplateData) string {
	conditions := map[string]bool{
		"has_navigation": data.HasPrev || data.HasNext,
		"has_tags":       data.HasTags,
		"has_prev":       data.HasPrev,
		"has_next":       data.HasNext,
	}
	for pass := 0; pass < 3; pass++ {
		for _, name := range conditionNames {
			template = resolveConditional(template, name, conditions[name])
		}
	}
	return template
}

// resolveConditional resolves the first block testing the named condition.
// The block ends at the first end marker after the opening marker. Blocks
// missing their end marker are left untouched.
func resolveConditional(template, name string, value bool) string {
	marker := ifMarker + name + " -->"
	start := strings.Index(template, marker)
	if start < 0 {
		return template
	}
	rest := template[start+len(marker):]
	end := strings.Index(rest, endIfMarker)
	if end < 0 {
		return template
	}
	tail := rest[end+len(endIfMarker):]
	if value {
		return template[:start] + rest[:end] + tail
	}
	return template[:start] + tail
}

// ReplaceTokens replaces the page-level tokens with their values from
// data. Every occurrence is replaced in a single pass, so token values
// containing braces are not expanded again. Unset values become empty
// strings, and text in braces that isn't a token is left alone.
func ReplaceTokens(template string, data TemplateData) string {
	return strings.NewReplacer(
		"{TITLE}", data.Title,
		"{DATE}", data.Date,
		"{ICON}", data.Icon,
		"{CONTENT}", data.Content,
		"{POST_URL}", data.PostURL,
		"{PREV_URL}", data.PrevURL,
		"{NEXT_URL}", data.NextURL,
		"{PREV_TITLE}", data.PrevTitle,
		"{NEXT_TITLE}", data.NextTitle,
		"{DESCRIPTION}", data.Description,
	).Replace(template)
}

// TemplateError is an error in a template file.
type TemplateError struct {
	Name         string
	Line         int
	ErrorMessage string
}

func (templateErr TemplateError) Error() string {
	if templateErr.Name == "" {
		return templateErr.ErrorMessage
	}
	if templateErr.Line == 0 {
		return templateErr.Name + ": " + templateErr.ErrorMessage
	}
	return templateErr.Name + ":" + strconv.Itoa(templateErr.Line) + ": " + templateErr.ErrorMessage
}

// CheckTemplate reports the first malformed marker pair in a template.
// The engine leaves malformed markers alone at render time, so the error
// is a warning for the template's author, not a render failure.
func CheckTemplate(name, template string) error {
	loopStart := strings.Index(template, loopMarker)
	loopEnd := strings.Index(template, endLoopMarker)
	if loopStart >= 0 && (loopEnd < 0 || loopEnd < loopStart) {
		return TemplateError{
			Name:         name,
			Line:         lineOf(template, loopStart),
			ErrorMessage: "loop is missing its " + endLoopMarker + " marker",
		}
	}
	if loopEnd >= 0 && loopStart < 0 {
		return TemplateError{
			Name:         name,
			Line:         lineOf(template, loopEnd),
			ErrorMessage: endLoopMarker + " marker without a loop",
		}
	}
	ifCount := strings.Count(template, ifMarker)
	endIfCount := strings.Count(template, endIfMarker)
	if ifCount > endIfCount {
		return TemplateError{
			Name:         name,
			Line:         lineOf(template, strings.Index(template, ifMarker)),
			ErrorMessage: "conditional is missing its " + endIfMarker + " marker",
		}
	}
	if endIfCount > ifCount {
		return TemplateError{
			Name:         name,
			Line:         lineOf(template, strings.Index(template, endIfMarker)),
			ErrorMessage: endIfMarker + " marker without a conditional",
		}
	}
	return nil
}

func lineOf(s string, pos int) int {
	return 1 + strings.Count(s[:pos], "\n")
}
