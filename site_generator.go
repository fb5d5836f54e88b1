package pragma

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io/fs"
	"log/slog"
	"math/rand"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/wsshaw/pragma/stacktrace"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// maxMonthlyPosts caps how many posts the scroll lists for a single
// calendar month.
const maxMonthlyPosts = 128

// maxFeedItems is the number of posts included in the RSS feed.
const maxFeedItems = 20

// SiteGenerator renders a site's posts and aggregate pages into its
// output FS.
type SiteGenerator struct {
	// Site holds the site's configuration, loaded from pragma_config.yml.
	Site *Site

	// sourceFS holds the site's sources: the configuration file, the
	// dat/ directory and any custom templates.
	sourceFS FS

	// outputFS is where generated pages are written. It also holds the
	// published img/ tree that icons and galleries are read from.
	outputFS FS

	// markdown converts post bodies to HTML.
	markdown *Markdown

	// templates are the site's page fragment templates, keyed by name.
	// Missing files fall back to the built-in defaults.
	templates map[string]string

	// dryRun makes the generator render everything but write nothing.
	dryRun bool

	logger *slog.Logger
}

// SiteGeneratorConfig holds the parameters for NewSiteGenerator.
type SiteGeneratorConfig struct {
	// SourceFS holds the site sources.
	SourceFS FS

	// OutputFS is where generated pages are written. Usually the same
	// directory as SourceFS.
	OutputFS FS

	// DryRun makes the generator render everything but write nothing.
	// Pages that would be written are logged instead.
	DryRun bool

	// Logger is used for progress and warnings. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// templateNames lists the fragment templates the generator loads and
// checks at startup. A site may override any of them in its templates/
// directory. post_card has no built-in consumer; the single_page and
// index_item defaults carry their own card markup.
var templateNames = []string{"index_item", "navigation", "post_card", "single_page"}

// NewSiteGenerator constructs a SiteGenerator: it loads the site
// configuration, the fragment templates (warning about malformed ones)
// and the icon pool.
func NewSiteGenerator(ctx context.Context, siteGenConfig SiteGeneratorConfig) (*SiteGenerator, error) {
	logger := siteGenConfig.Logger
	if logger == nil {
		logger = slog.Default()
	}
	site, err := LoadConfig(ctx, siteGenConfig.SourceFS, logger)
	if err != nil {
		return nil, err
	}
	siteGen := &SiteGenerator{
		Site:      site,
		sourceFS:  siteGenConfig.SourceFS,
		outputFS:  siteGenConfig.OutputFS,
		markdown:  &Markdown{GalleryFS: siteGenConfig.OutputFS},
		templates: make(map[string]string),
		dryRun:    siteGenConfig.DryRun,
		logger:    logger,
	}
	for _, name := range templateNames {
		b, err := fs.ReadFile(siteGen.sourceFS.WithContext(ctx), "templates/"+name+".html")
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, stacktrace.New(err)
			}
			b, err = fs.ReadFile(RuntimeFS, "embed/templates/"+name+".html")
			if err != nil {
				return nil, stacktrace.New(err)
			}
		}
		text := string(b)
		err = CheckTemplate(name, text)
		if err != nil {
			logger.Warn("template has errors", "template", name, "error", err)
		}
		siteGen.templates[name] = text
	}
	dirEntries, err := siteGen.outputFS.WithContext(ctx).ReadDir(strings.TrimSuffix(site.IconsDir, "/"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, stacktrace.New(err)
	}
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}
		site.Icons = append(site.Icons, dirEntry.Name())
	}
	logger.Info("loaded icons", "count", len(site.Icons))
	return siteGen, nil
}

// ConvertAll runs the markdown converter over every post that did not
// opt out with parse: false in its front matter.
func (siteGen *SiteGenerator) ConvertAll(ctx context.Context, pages []*Page) error {
	group, groupctx := errgroup.WithContext(ctx)
	for _, page := range pages {
		if !page.Parse {
			continue
		}
		page := page
		group.Go(func() (err error) {
			defer stacktrace.RecoverPanic(&err)
			err = groupctx.Err()
			if err != nil {
				return stacktrace.New(err)
			}
			page.Content = siteGen.markdown.Convert(page.Content)
			return nil
		})
	}
	return group.Wait()
}

// AssignIcons gives every post an icon. A static_icon named in the
// front matter wins if the file exists under the site's icons
// directory, otherwise an icon is drawn from the loaded pool at random.
// Posts keep an empty icon when the pool is empty. rng must not be nil.
func (siteGen *SiteGenerator) AssignIcons(ctx context.Context, pages []*Page, rng *rand.Rand) {
	site := siteGen.Site
	for _, page := range pages {
		if page.StaticIcon != "" {
			fileInfo, err := fs.Stat(siteGen.outputFS.WithContext(ctx), path.Join(site.IconsDir, page.StaticIcon))
			if err == nil && !fileInfo.IsDir() {
				page.Icon = page.StaticIcon
				continue
			}
			siteGen.logger.Warn("static icon not found, using random icon", "icon", page.StaticIcon, "post", page.Title)
		}
		if len(site.Icons) > 0 {
			page.Icon = site.Icons[rng.Intn(len(site.Icons))]
		}
	}
}

// GeneratePages renders posts into c/. If since is nonzero, only posts
// whose source files changed after it are rendered. A post that fails
// to build is logged and skipped; the rest of the batch continues.
func (siteGen *SiteGenerator) GeneratePages(ctx context.Context, pages []*Page, since time.Time) (int64, error) {
	var count atomic.Int64
	group, groupctx := errgroup.WithContext(ctx)
	for _, page := range pages {
		if !since.IsZero() && !page.LastModified.After(since) {
			continue
		}
		page := page
		group.Go(func() (err error) {
			defer stacktrace.RecoverPanic(&err)
			err = groupctx.Err()
			if err != nil {
				return stacktrace.New(err)
			}
			err = siteGen.GeneratePage(groupctx, page)
			if err != nil {
				if groupctx.Err() != nil {
					return err
				}
				siteGen.logger.Warn("skipping post that failed to build", "post", page.SourcePath, "error", err)
				return nil
			}
			count.Add(1)
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return count.Load(), err
	}
	return count.Load(), nil
}

// GeneratePage renders one post into c/{slug}.html: the site header,
// the post through the single_page template, the navigation template,
// then the site footer. The header and footer have their {TOKEN}s
// resolved afterwards, including the {BACK} and {FORWARD} neighbor
// links. Whatever remains unresolved is stripped so tokens never leak
// into published pages.
func (siteGen *SiteGenerator) GeneratePage(ctx context.Context, page *Page) error {
	site := siteGen.Site
	data := NewTemplateData(site, page)
	var b strings.Builder
	b.Grow(len(site.Header) + len(page.Content) + len(site.Footer) + 512)
	b.WriteString(site.Header)
	b.WriteString(RenderTemplate(siteGen.templates["single_page"], data))
	b.WriteString(RenderTemplate(siteGen.templates["navigation"], data))
	b.WriteString(site.Footer)
	var forward, back string
	if page.Prev != nil {
		forward = ` | <a href="` + page.Prev.Slug() + `.html">newer</a>`
	}
	if page.Next != nil {
		back = `<a href="` + page.Next.Slug() + `.html">older</a> | `
	}
	image := site.DefaultImage
	if page.Icon != "" {
		image = "/img/icons/" + page.Icon
	}
	var date string
	if page.DateStamp > 0 {
		date = "<i>" + LegibleDate(page.DateStamp, site.Location) + "</i><br>"
	}
	replacer := strings.NewReplacer(
		"{PAGETITLE}", page.Title,
		"{FORWARD}", forward,
		"{BACK}", back,
		"{MAIN_IMAGE}", site.ImageURL(image),
		"{SITE_NAME}", site.Name,
		"{TITLE_FOR_META}", page.Title,
		"{PAGE_URL}", data.PostURL,
		"{TITLE}", "<h3>"+page.Title+"</h3>",
		"{TAGS}", ExplodeTags(page.Tags),
		"{DATE}", date,
		"{DESCRIPTION}", data.Description,
	)
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		if buf.Cap() <= maxPoolableBufferCapacity {
			bufPool.Put(buf)
		}
	}()
	_, err := tokenScrubber.WriteString(buf, replacer.Replace(b.String()))
	if err != nil {
		return stacktrace.New(err)
	}
	_, err = siteGen.writeFile(ctx, "c/"+page.Slug()+".html", buf.Bytes())
	return err
}

// GenerateIndexes writes the paginated reverse-chronological index:
// index.html for the first page, then index1.html, index2.html and so
// on, IndexSize posts per page.
func (siteGen *SiteGenerator) GenerateIndexes(ctx context.Context, pages []*Page) (int64, error) {
	lastPage := 0
	if len(pages) > 0 {
		lastPage = (len(pages) - 1) / siteGen.Site.IndexSize
	}
	var count atomic.Int64
	group, groupctx := errgroup.WithContext(ctx)
	for n := 0; n <= lastPage; n++ {
		n := n
		group.Go(func() (err error) {
			defer stacktrace.RecoverPanic(&err)
			name := "index.html"
			if n > 0 {
				name = "index" + strconv.Itoa(n) + ".html"
			}
			buf := bufPool.Get().(*bytes.Buffer)
			buf.Reset()
			defer func() {
				if buf.Cap() <= maxPoolableBufferCapacity {
					bufPool.Put(buf)
				}
			}()
			_, err = tokenScrubber.WriteString(buf, siteGen.buildIndex(pages, n, lastPage))
			if err != nil {
				return stacktrace.New(err)
			}
			_, err = siteGen.writeFile(groupctx, name, buf.Bytes())
			if err != nil {
				return err
			}
			count.Add(1)
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return count.Load(), err
	}
	return count.Load(), nil
}

func (siteGen *SiteGenerator) buildIndex(pages []*Page, n, lastPage int) string {
	site := siteGen.Site
	var b strings.Builder
	b.WriteString(site.Header)
	if len(pages) > 0 {
		start := n * site.IndexSize
		end := start + site.IndexSize
		if end > len(pages) {
			end = len(pages)
		}
		for _, page := range pages[start:end] {
			b.WriteString(siteGen.renderIndexItem(page))
		}
		b.WriteString(`<div class="foot">` + "\n")
		if n > 0 {
			newer := "index" + strconv.Itoa(n-1) + ".html"
			if n-1 == 0 {
				newer = "index.html"
			}
			b.WriteString(`<a href="` + newer + `">&lt; newer </a>`)
		}
		if n == lastPage {
			b.WriteString("(these are the oldest things)\n")
		} else {
			if n > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(`<a href="index` + strconv.Itoa(n+1) + `.html">older &gt;</a>`)
		}
		b.WriteString("</div>\n")
	}
	b.WriteString(site.Footer)
	url := site.BaseURL + "index.html"
	if n > 0 {
		url = site.BaseURL + "index" + strconv.Itoa(n) + ".html"
	}
	return siteGen.commonTokens(url, "", "Index of all posts on "+site.Name).Replace(b.String())
}

// renderIndexItem renders one post through the index_item template. The
// body is clipped at the read-more marker and a link to the full post
// takes its place; read_more: false in the site configuration keeps the
// full body instead.
func (siteGen *SiteGenerator) renderIndexItem(page *Page) string {
	data := NewTemplateData(siteGen.Site, page)
	if i := strings.Index(data.Content, readMoreMarker); i >= 0 {
		if siteGen.Site.ReadMore {
			data.Content = data.Content[:i] + readMoreLink(data.PostURL)
		} else {
			data.Content = strings.ReplaceAll(data.Content, readMoreMarker, "")
		}
	}
	return RenderTemplate(siteGen.templates["index_item"], data)
}

func readMoreLink(href string) string {
	return `<p class="read_more"><a href="` + EscapeHTML(href) + `">read more &raquo;</a></p>`
}

// GenerateScroll writes s/index.html, the chronological index of every
// post grouped by year and month, newest first.
func (siteGen *SiteGenerator) GenerateScroll(ctx context.Context, pages []*Page) error {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		if buf.Cap() <= maxPoolableBufferCapacity {
			bufPool.Put(buf)
		}
	}()
	_, err := tokenScrubber.WriteString(buf, siteGen.buildScroll(pages))
	if err != nil {
		return stacktrace.New(err)
	}
	_, err = siteGen.writeFile(ctx, "s/index.html", buf.Bytes())
	return err
}

func (siteGen *SiteGenerator) buildScroll(pages []*Page) string {
	site := siteGen.Site
	loc := site.Location
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	b.WriteString(site.Header)
	b.WriteString(`<div class="post_card"><h3>View as: scroll | <a href="/t/">tag index</a></h3>` + "\n")
	if len(pages) == 0 {
		b.WriteString("<p>No posts found.</p>\n")
	} else {
		type monthKey struct {
			year  int
			month time.Month
		}
		months := make(map[monthKey][]*Page)
		minYear, maxYear := int(^uint(0)>>1), 0
		for _, page := range pages {
			t := time.Unix(page.DateStamp, 0).In(loc)
			key := monthKey{t.Year(), t.Month()}
			if len(months[key]) < maxMonthlyPosts {
				months[key] = append(months[key], page)
			} else {
				siteGen.logger.Warn("too many posts in month, not listing in scroll", "year", key.year, "month", key.month.String(), "post", page.Title)
			}
			if t.Year() < minYear {
				minYear = t.Year()
			}
			if t.Year() > maxYear {
				maxYear = t.Year()
			}
		}
		for year := maxYear; year >= minYear; year-- {
			hasPosts := false
			for month := time.December; month >= time.January; month-- {
				if len(months[monthKey{year, month}]) > 0 {
					hasPosts = true
					break
				}
			}
			if !hasPosts {
				continue
			}
			b.WriteString("<h2>" + strconv.Itoa(year) + "</h2>\n<ul>\n")
			for month := time.December; month >= time.January; month-- {
				bucket := months[monthKey{year, month}]
				if len(bucket) == 0 {
					continue
				}
				b.WriteString("<li><h3>" + month.String() + "</h3></li><ul>\n")
				for _, item := range bucket {
					b.WriteString(`<li><a href="../c/` + item.Slug() + `.html">` + item.Title + `</a> - ` + LegibleDate(item.DateStamp, loc) + "</li>\n")
				}
				b.WriteString("</ul>\n")
			}
			b.WriteString("</ul>\n")
		}
	}
	b.WriteString("</div>\n")
	b.WriteString(site.Footer)
	return siteGen.commonTokens(site.BaseURL+"s/", site.Name+" | all posts", "All posts on "+site.Name).Replace(b.String())
}

// GenerateTagIndex writes t/index.html, the master list of every tag
// with the posts carrying it, plus one t/{tag}.html page per tag. It
// returns the number of pages written.
func (siteGen *SiteGenerator) GenerateTagIndex(ctx context.Context, pages []*Page) (int64, error) {
	master, tagPages := siteGen.buildTagIndex(pages)
	siteGen.logger.Info("generating tag pages", "tags", len(tagPages))
	var count atomic.Int64
	group, groupctx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		defer stacktrace.RecoverPanic(&err)
		_, err = siteGen.writeTagPage(groupctx, "t/index.html", master)
		if err != nil {
			return err
		}
		count.Add(1)
		return nil
	})
	for tag, html := range tagPages {
		tag, html := tag, html
		group.Go(func() (err error) {
			defer stacktrace.RecoverPanic(&err)
			_, err = siteGen.writeTagPage(groupctx, "t/"+tag+".html", html)
			if err != nil {
				return err
			}
			count.Add(1)
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return count.Load(), err
	}
	return count.Load(), nil
}

func (siteGen *SiteGenerator) writeTagPage(ctx context.Context, name, html string) (bool, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		if buf.Cap() <= maxPoolableBufferCapacity {
			bufPool.Put(buf)
		}
	}()
	_, err := tokenScrubber.WriteString(buf, html)
	if err != nil {
		return false, stacktrace.New(err)
	}
	return siteGen.writeFile(ctx, name, buf.Bytes())
}

// buildTagIndex returns the master tag index page and the per-tag
// pages keyed by tag. Tags are sorted with English collation rules
// rather than code point order.
func (siteGen *SiteGenerator) buildTagIndex(pages []*Page) (string, map[string]string) {
	site := siteGen.Site
	uniqueTags := make(map[string]struct{})
	for _, page := range pages {
		for _, tag := range page.Tags {
			uniqueTags[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(uniqueTags))
	for tag := range uniqueTags {
		tags = append(tags, tag)
	}
	collate.New(language.English).SortStrings(tags)
	tagPages := make(map[string]string, len(tags))
	var b strings.Builder
	b.WriteString(site.Header)
	b.WriteString(`<h3>View as: <a href="/s/">scroll</a> | tag index</h3>` + "\n")
	b.WriteString("<h2>Tag Index</h2>\n<ul>\n")
	for _, tag := range tags {
		var tb strings.Builder
		tb.WriteString(site.Header)
		tb.WriteString(`<h2>Pages tagged "` + tag + `"</h2>` + "\n<ul>\n")
		b.WriteString("<li><b>" + tag + "</b></li>\n")
		inList := false
		for _, page := range pages {
			if !slices.Contains(page.Tags, tag) {
				continue
			}
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			entry := `<li><a href="/c/` + page.Slug() + `.html">` + page.Title + `</a> on ` + LegibleDate(page.DateStamp, site.Location) + "</li>\n"
			b.WriteString(entry)
			tb.WriteString(entry)
		}
		if inList {
			b.WriteString("</ul><p></p>\n")
		}
		tb.WriteString("</ul>\n")
		tb.WriteString(site.Footer)
		tagPages[tag] = siteGen.commonTokens(site.BaseURL+"t/"+tag+".html", tag, "Posts tagged with '"+tag+"' on "+site.Name).Replace(tb.String())
	}
	b.WriteString("</ul>\n<hr>\n")
	b.WriteString(site.Footer)
	master := siteGen.commonTokens(site.BaseURL+"t/", site.Name+" | tag index", "Index of tags on "+site.Name).Replace(b.String())
	return master, tagPages
}

// RSSFeed is the feed document root.
type RSSFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel RSSChannel `xml:"channel"`
}

// RSSChannel holds the feed metadata and items.
type RSSChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Generator   string    `xml:"generator"`
	Language    string    `xml:"language"`
	Items       []RSSItem `xml:"item"`
}

// RSSItem represents one post in the feed.
type RSSItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// GenerateFeed writes feed.xml, an RSS 2.0 feed of the most recent
// posts. Pages must already be sorted newest first.
func (siteGen *SiteGenerator) GenerateFeed(ctx context.Context, pages []*Page) error {
	site := siteGen.Site
	loc := site.Location
	if loc == nil {
		loc = time.Local
	}
	feed := RSSFeed{
		Version: "2.0",
		Channel: RSSChannel{
			Title:       site.Name,
			Link:        site.BaseURL,
			Description: site.Tagline,
			Generator:   "pragma-web",
			Language:    "en-us",
		},
	}
	if feed.Channel.Description == "" {
		feed.Channel.Description = "Latest posts from " + site.Name
	}
	for _, page := range pages {
		if len(feed.Channel.Items) == maxFeedItems {
			break
		}
		link := site.PostURL(page)
		feed.Channel.Items = append(feed.Channel.Items, RSSItem{
			Title:       page.Title,
			Link:        link,
			GUID:        link,
			PubDate:     time.Unix(page.DateStamp, 0).In(loc).Format(time.RFC1123Z),
			Description: PageDescription(page),
		})
	}
	b, err := xml.MarshalIndent(&feed, "", "  ")
	if err != nil {
		return stacktrace.New(err)
	}
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		if buf.Cap() <= maxPoolableBufferCapacity {
			bufPool.Put(buf)
		}
	}()
	buf.WriteString(xml.Header)
	buf.Write(b)
	buf.WriteByte('\n')
	_, err = siteGen.writeFile(ctx, "feed.xml", buf.Bytes())
	return err
}

// GenerateAll builds the whole site: the individual posts, the
// paginated index, the scroll, the tag pages and the RSS feed. If since
// is nonzero, posts whose sources have not changed after it keep their
// existing output files; aggregate pages are always rebuilt.
func (siteGen *SiteGenerator) GenerateAll(ctx context.Context, pages []*Page, since time.Time) error {
	count, err := siteGen.GeneratePages(ctx, pages, since)
	if err != nil {
		return err
	}
	siteGen.logger.Info("built posts", "count", count)
	group, groupctx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		defer stacktrace.RecoverPanic(&err)
		n, err := siteGen.GenerateIndexes(groupctx, pages)
		if err != nil {
			return err
		}
		siteGen.logger.Info("built index pages", "count", n)
		return nil
	})
	if siteGen.Site.BuildScroll {
		group.Go(func() (err error) {
			defer stacktrace.RecoverPanic(&err)
			return siteGen.GenerateScroll(groupctx, pages)
		})
	}
	if siteGen.Site.BuildTags {
		group.Go(func() (err error) {
			defer stacktrace.RecoverPanic(&err)
			n, err := siteGen.GenerateTagIndex(groupctx, pages)
			if err != nil {
				return err
			}
			siteGen.logger.Info("built tag pages", "count", n)
			return nil
		})
	}
	group.Go(func() (err error) {
		defer stacktrace.RecoverPanic(&err)
		return siteGen.GenerateFeed(groupctx, pages)
	})
	return group.Wait()
}

// commonTokens returns the replacer for the header and footer tokens
// shared by the aggregate pages. The navigation tokens and {TITLE} are
// blanked since they only apply to individual posts; an empty title
// falls back to the site name for {PAGETITLE} and {TITLE_FOR_META}.
func (siteGen *SiteGenerator) commonTokens(pageURL, title, description string) *strings.Replacer {
	site := siteGen.Site
	metaTitle := title
	if metaTitle == "" {
		metaTitle = site.Name
	}
	return strings.NewReplacer(
		"{BACK}", "",
		"{FORWARD}", "",
		"{TITLE}", "",
		"{MAIN_IMAGE}", site.ImageURL(site.DefaultImage),
		"{SITE_NAME}", site.Name,
		"{PAGE_URL}", pageURL,
		"{TITLE_FOR_META}", metaTitle,
		"{PAGETITLE}", metaTitle,
		"{DESCRIPTION}", description,
	)
}

// tokenScrubber removes every token in the page and template vocabulary.
// Generated pages are swept with it as a final step so that no
// unresolved {TOKEN} ever reaches published output.
var tokenScrubber = strings.NewReplacer(
	"{TITLE}", "", "{DATE}", "", "{TAGS}", "", "{BACK}", "", "{FORWARD}", "",
	"{PAGETITLE}", "", "{MAIN_IMAGE}", "", "{SITE_NAME}", "", "{PAGE_URL}", "",
	"{TITLE_FOR_META}", "", "{DESCRIPTION}", "", "{CONTENT}", "", "{ICON}", "",
	"{POST_URL}", "", "{PREV_URL}", "", "{NEXT_URL}", "", "{PREV_TITLE}", "",
	"{NEXT_TITLE}", "", "{TAG}", "", "{TAG_URL}", "",
	readMoreMarker, "",
)

// writeFile writes data to name in the output FS, creating parent
// directories as needed. Unchanged files are left untouched so rebuilds
// do not churn modification times; the comparison uses BLAKE2b content
// hashes. In dry run mode changed files are logged instead of written.
// Reports whether the file was written.
func (siteGen *SiteGenerator) writeFile(ctx context.Context, name string, data []byte) (bool, error) {
	fsys := siteGen.outputFS.WithContext(ctx)
	existing, err := fs.ReadFile(fsys, name)
	if err == nil && blake2b.Sum256(existing) == blake2b.Sum256(data) {
		siteGen.logger.Debug("unchanged, skipping", "name", name)
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, stacktrace.New(err)
	}
	if siteGen.dryRun {
		siteGen.logger.Info("dry run, would write file", "name", name, "size", len(data))
		return false, nil
	}
	if dir := path.Dir(name); dir != "." {
		err = fsys.MkdirAll(dir, 0755)
		if err != nil {
			return false, stacktrace.New(err)
		}
	}
	writer, err := fsys.OpenWriter(name, 0644)
	if err != nil {
		return false, stacktrace.New(err)
	}
	defer writer.Close()
	_, err = writer.Write(data)
	if err != nil {
		return false, stacktrace.New(err)
	}
	err = writer.Close()
	if err != nil {
		return false, stacktrace.New(err)
	}
	siteGen.logger.Debug("wrote file", "name", name, "size", len(data))
	return true, nil
}
