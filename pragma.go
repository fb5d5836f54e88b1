package pragma

import (
	"cmp"
	"embed"
	"io/fs"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Page is a single post loaded from a source file. The loader keeps pages
// ordered newest first, which is the order every generated surface (index,
// scroll, tag pages, feed) presents them in.
type Page struct {
	// Title is the page title from the front matter. If the front matter
	// omits it, the loader derives one from the source file name.
	Title string

	// Tags are the page's tags in the order they were written.
	Tags []string

	// Date is the raw date value from the front matter.
	Date string

	// DateStamp is the page's publication time in Unix seconds. It is the
	// sort key for the page list and doubles as the page's slug, so two
	// pages must not share a DateStamp.
	DateStamp int64

	// LastModified is the modification time of the source file. The build
	// command uses it to decide which pages changed since the last run.
	LastModified time.Time

	// Summary is an optional hand-written description. If empty, the
	// description is derived from the first part of the rendered content.
	Summary string

	// Icon is the file name of the page's icon, relative to the icons
	// directory. Assigned by the loader, either from the static_icon front
	// matter field or randomly from the icon pool.
	Icon string

	// StaticIcon is the icon requested by the front matter, if any.
	StaticIcon string

	// Parse reports whether the content should be run through the markdown
	// converter. Pages that already contain HTML can opt out with
	// "parse: false".
	Parse bool

	// Content is the page body. It holds the raw source text after loading
	// and the rendered HTML once the page has been converted.
	Content string

	// SourcePath is the path of the source file the page was loaded from.
	SourcePath string

	// Prev points at the next newer page, Next at the next older page. Both
	// are nil at the ends of the list.
	Prev *Page

	// Next points at the next older page.
	Next *Page
}

// Slug returns the page's URL slug, which is its date stamp in decimal. A
// page's permalink is <base url>c/<slug>.html.
func (page *Page) Slug() string {
	return strconv.FormatInt(page.DateStamp, 10)
}

// Site holds the site-wide configuration plus everything the renderers need
// that isn't tied to a single page.
type Site struct {
	// Name is the site name.
	Name string

	// Tagline is a short description of the site, used as the feed
	// description. May be empty.
	Tagline string

	// BaseURL is the site's base URL. It always ends in a slash.
	BaseURL string

	// DefaultImage is the image used for link previews on pages that don't
	// have an icon of their own. Either an absolute URL or a path relative
	// to the base URL.
	DefaultImage string

	// CSS is the path of the site stylesheet.
	CSS string

	// JS is the path of the site script file.
	JS string

	// Header is the raw header template, prepended to every generated page.
	Header string

	// Footer is the raw footer template, appended to every generated page.
	Footer string

	// IconsDir is the icon directory, relative to the output directory.
	IconsDir string

	// IndexSize is the number of posts on each index page.
	IndexSize int

	// ReadMore reports whether index entries are clipped at the read more
	// marker. When false the full content appears on the index.
	ReadMore bool

	// BuildTags reports whether the tag index is generated.
	BuildTags bool

	// BuildScroll reports whether the scroll view is generated.
	BuildScroll bool

	// Icons is the pool of icon file names found in the icons directory.
	Icons []string

	// Location is the time zone dates are formatted in. The loader sets it
	// to the local time zone.
	Location *time.Location
}

// PostURL returns the page's permalink on the site.
func (site *Site) PostURL(page *Page) string {
	return site.BaseURL + "c/" + page.Slug() + ".html"
}

// ImageURL resolves an image reference against the site's base URL.
// Absolute URLs pass through; paths are joined to the base URL without
// doubling the slash.
func (site *Site) ImageURL(image string) string {
	if image == "" || strings.Contains(image, "://") {
		return image
	}
	return site.BaseURL + strings.TrimPrefix(image, "/")
}

// SortPages sorts pages newest first and links each page to its neighbors:
// Prev points at the next newer post, Next at the next older one. The sort
// is stable, so pages sharing a date stamp keep their load order.
func SortPages(pages []*Page) []*Page {
	slices.SortStableFunc(pages, func(a, b *Page) int {
		return cmp.Compare(b.DateStamp, a.DateStamp)
	})
	for i, page := range pages {
		page.Prev = nil
		page.Next = nil
		if i > 0 {
			page.Prev = pages[i-1]
		}
		if i < len(pages)-1 {
			page.Next = pages[i+1]
		}
	}
	return pages
}

var (
	//go:embed embed
	embedFS embed.FS

	// RuntimeFS is the FS containing the runtime files needed by pragma for
	// operation, notably the skeleton of a freshly initialized site.
	RuntimeFS fs.FS = embedFS

	// Version holds the current pragma git revision.
	Version string
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				Version = setting.Value
				break
			}
		}
	}
}
