package pragma_test

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/wsshaw/pragma"
)

const testConfig = `site_name: Testing Grounds
tagline: notes from the bench
base_url: https://test.example/
default_image: img/icons/default.svg
index_size: 10
`

const testHeader = `<html><head><title>{PAGETITLE}</title><meta name="description" content="{DESCRIPTION}"></head><body>
<nav>{BACK}{FORWARD}</nav>
`

const testFooter = "</body></html>\n"

// testPosts are three posts spanning two years: Alpha has tags and a read
// more marker, Beta has one tag, Gamma has none and a title that needs
// escaping in the feed.
var testPosts = map[string]string{
	"alpha.txt": `title: Alpha
date: 1686431433
tags: go, testing
summary: about alpha
###
First paragraph.

#MORE

Second paragraph.
`,
	"beta.txt": `title: Beta
date: 1672574400
tags: go
###
Beta body.
`,
	"gamma.txt": `title: Odds & Ends
date: 1659355200
###
Gamma body.
`,
}

// newSiteDir scaffolds a site directory with the given configuration and
// posts.
func newSiteDir(t *testing.T, config string, posts map[string]string) *pragma.DirectoryFS {
	t.Helper()
	fsys := newTestFS(t)
	writeTestFile(t, fsys, "pragma_config.yml", config)
	writeTestFile(t, fsys, "_header.html", testHeader)
	writeTestFile(t, fsys, "_footer.html", testFooter)
	for name, data := range posts {
		writeTestFile(t, fsys, "dat/"+name, data)
	}
	return fsys
}

func newTestSite(t *testing.T, config string, posts map[string]string) (*pragma.SiteGenerator, *pragma.DirectoryFS) {
	t.Helper()
	fsys := newSiteDir(t, config, posts)
	siteGen, err := pragma.NewSiteGenerator(context.Background(), pragma.SiteGeneratorConfig{
		SourceFS: fsys,
		OutputFS: fsys,
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return siteGen, fsys
}

// loadTestPages loads and converts the site's posts, newest first.
func loadTestPages(t *testing.T, siteGen *pragma.SiteGenerator, fsys pragma.FS) []*pragma.Page {
	t.Helper()
	ctx := context.Background()
	pages, err := pragma.LoadPages(ctx, fsys, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	err = siteGen.ConvertAll(ctx, pages)
	if err != nil {
		t.Fatal(err)
	}
	return pages
}

func readOutput(t *testing.T, fsys pragma.FS, name string) string {
	t.Helper()
	b, err := fs.ReadFile(fsys.WithContext(context.Background()), name)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestGeneratePage(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, testPosts)
	pages := loadTestPages(t, siteGen, fsys)

	err := siteGen.GeneratePage(ctx, pages[0])
	if err != nil {
		t.Fatal(err)
	}
	got := readOutput(t, fsys, "c/1686431433.html")
	for _, want := range []string{
		"<title>Alpha</title>",
		`content="about alpha"`,
		"<h3>Alpha</h3>",
		"<i>" + pragma.LegibleDate(1686431433, siteGen.Site.Location) + "</i>",
		`<a href="/t/go.html">go</a>, <a href="/t/testing.html">testing</a>`,
		"<p>First paragraph.</p>",
		"<p>Second paragraph.</p>",
		`<a href="1672574400.html">older</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "newer") {
		t.Error("newest post has a newer link")
	}
	if strings.Contains(got, "#MORE") {
		t.Error("read more marker leaked into the page")
	}
	if strings.Contains(got, "{") {
		t.Errorf("unresolved token in:\n%s", got)
	}

	t.Run("middle post links both neighbors", func(t *testing.T) {
		err := siteGen.GeneratePage(ctx, pages[1])
		if err != nil {
			t.Fatal(err)
		}
		got := readOutput(t, fsys, "c/1672574400.html")
		if !strings.Contains(got, `<a href="1686431433.html">newer</a>`) {
			t.Error("missing newer link")
		}
		if !strings.Contains(got, `<a href="1659355200.html">older</a>`) {
			t.Error("missing older link")
		}
	})
}

func TestGeneratePagesSince(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, testPosts)
	pages := loadTestPages(t, siteGen, fsys)

	count, err := siteGen.GeneratePages(ctx, pages, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("got %d pages written, want 3", count)
	}

	count, err = siteGen.GeneratePages(ctx, pages, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("got %d pages written since a future time, want 0", count)
	}
}

func TestGeneratePagesSkipsFailures(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, testPosts)
	pages := loadTestPages(t, siteGen, fsys)

	// A directory squatting on the output path makes that one post fail.
	err := fsys.WithContext(ctx).MkdirAll("c/1672574400.html", 0755)
	if err != nil {
		t.Fatal(err)
	}
	count, err := siteGen.GeneratePages(ctx, pages, time.Time{})
	if err != nil {
		t.Fatalf("one broken post failed the batch: %v", err)
	}
	if count != 2 {
		t.Fatalf("got %d pages written, want 2", count)
	}
	for _, name := range []string{"c/1686431433.html", "c/1659355200.html"} {
		if _, err := fs.Stat(fsys.WithContext(ctx), name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestRegenerateSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, map[string]string{"alpha.txt": testPosts["alpha.txt"]})
	pages := loadTestPages(t, siteGen, fsys)

	err := siteGen.GeneratePage(ctx, pages[0])
	if err != nil {
		t.Fatal(err)
	}
	first := readOutput(t, fsys, "c/1686431433.html")

	outputPath := filepath.Join(fsys.RootDir, "c", "1686431433.html")
	past := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	err = os.Chtimes(outputPath, past, past)
	if err != nil {
		t.Fatal(err)
	}
	err = siteGen.GeneratePage(ctx, pages[0])
	if err != nil {
		t.Fatal(err)
	}
	fileInfo, err := os.Stat(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !fileInfo.ModTime().Equal(past) {
		t.Error("unchanged page was rewritten")
	}

	t.Run("tampered file is restored", func(t *testing.T) {
		writeTestFile(t, fsys, "c/1686431433.html", "tampered")
		err := siteGen.GeneratePage(ctx, pages[0])
		if err != nil {
			t.Fatal(err)
		}
		if got := readOutput(t, fsys, "c/1686431433.html"); got != first {
			t.Error("changed page was not rewritten")
		}
	})
}

func manyPosts(n int) map[string]string {
	posts := make(map[string]string, n)
	for i := 1; i <= n; i++ {
		posts[fmt.Sprintf("post%02d.txt", i)] = fmt.Sprintf(
			"title: Post %02d\ndate: %d\n###\nBody %02d.\n", i, 1672574400+i*86400, i)
	}
	return posts
}

func TestGenerateIndexPagination(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, manyPosts(25))
	pages := loadTestPages(t, siteGen, fsys)

	count, err := siteGen.GenerateIndexes(ctx, pages)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("got %d index pages, want 3", count)
	}

	first := readOutput(t, fsys, "index.html")
	if !strings.Contains(first, "Post 25") || !strings.Contains(first, "Post 16") {
		t.Error("first page missing its posts")
	}
	if strings.Contains(first, "Post 15") {
		t.Error("first page holds more than index_size posts")
	}
	if strings.Contains(first, "newer") {
		t.Error("first page has a newer link")
	}
	if !strings.Contains(first, `<a href="index1.html">older &gt;</a>`) {
		t.Error("first page missing the older link")
	}

	second := readOutput(t, fsys, "index1.html")
	if !strings.Contains(second, "Post 15") || !strings.Contains(second, "Post 06") {
		t.Error("second page missing its posts")
	}
	if !strings.Contains(second, `<a href="index.html">&lt; newer </a>`) {
		t.Error("second page's newer link should point at index.html")
	}
	if !strings.Contains(second, `<a href="index2.html">older &gt;</a>`) {
		t.Error("second page missing the older link")
	}

	third := readOutput(t, fsys, "index2.html")
	if !strings.Contains(third, "Post 05") || !strings.Contains(third, "Post 01") {
		t.Error("third page missing its posts")
	}
	if !strings.Contains(third, "(these are the oldest things)") {
		t.Error("last page missing the oldest marker")
	}
	if strings.Contains(third, "older &gt;") {
		t.Error("last page has an older link")
	}

	t.Run("empty site still writes an index", func(t *testing.T) {
		siteGen, fsys := newTestSite(t, testConfig, nil)
		count, err := siteGen.GenerateIndexes(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Fatalf("got %d index pages, want 1", count)
		}
		got := readOutput(t, fsys, "index.html")
		if !strings.Contains(got, testFooter) {
			t.Error("index missing the footer")
		}
	})
}

func TestGenerateIndexReadMore(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, testPosts)
	pages := loadTestPages(t, siteGen, fsys)

	_, err := siteGen.GenerateIndexes(ctx, pages)
	if err != nil {
		t.Fatal(err)
	}
	got := readOutput(t, fsys, "index.html")
	if !strings.Contains(got, "<p>First paragraph.</p>") {
		t.Error("excerpt missing from the index")
	}
	if strings.Contains(got, "Second paragraph.") {
		t.Error("content past the read more marker leaked onto the index")
	}
	if !strings.Contains(got, `<a href="https://test.example/c/1686431433.html">read more &raquo;</a>`) {
		t.Error("missing the read more link")
	}

	t.Run("read_more disabled", func(t *testing.T) {
		siteGen, fsys := newTestSite(t, testConfig+"read_more: no\n", testPosts)
		pages := loadTestPages(t, siteGen, fsys)
		_, err := siteGen.GenerateIndexes(ctx, pages)
		if err != nil {
			t.Fatal(err)
		}
		got := readOutput(t, fsys, "index.html")
		if !strings.Contains(got, "Second paragraph.") {
			t.Error("full content missing with read_more disabled")
		}
		if strings.Contains(got, "read more &raquo;") {
			t.Error("read more link present with read_more disabled")
		}
	})
}

func TestGenerateScroll(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, testPosts)
	pages := loadTestPages(t, siteGen, fsys)

	err := siteGen.GenerateScroll(ctx, pages)
	if err != nil {
		t.Fatal(err)
	}
	got := readOutput(t, fsys, "s/index.html")
	if !strings.Contains(got, `scroll | <a href="/t/">tag index</a>`) {
		t.Error("missing the view switcher")
	}
	year2023 := strings.Index(got, "<h2>2023</h2>")
	year2022 := strings.Index(got, "<h2>2022</h2>")
	if year2023 < 0 || year2022 < 0 {
		t.Fatalf("missing year headings in:\n%s", got)
	}
	if year2023 > year2022 {
		t.Error("years not newest first")
	}
	june := strings.Index(got, "June")
	january := strings.Index(got, "January")
	if june < 0 || january < 0 {
		t.Fatalf("missing month headings in:\n%s", got)
	}
	if june > january {
		t.Error("months not newest first")
	}
	if !strings.Contains(got, `<a href="../c/1686431433.html">Alpha</a>`) {
		t.Error("missing the post link")
	}

	t.Run("no posts", func(t *testing.T) {
		siteGen, fsys := newTestSite(t, testConfig, nil)
		err := siteGen.GenerateScroll(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		got := readOutput(t, fsys, "s/index.html")
		if !strings.Contains(got, "<p>No posts found.</p>") {
			t.Error("missing the empty site notice")
		}
	})
}

func TestGenerateTagIndex(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, testPosts)
	pages := loadTestPages(t, siteGen, fsys)

	count, err := siteGen.GenerateTagIndex(ctx, pages)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("got %d tag pages, want the master page plus two tags", count)
	}

	master := readOutput(t, fsys, "t/index.html")
	goTag := strings.Index(master, "<li><b>go</b></li>")
	testingTag := strings.Index(master, "<li><b>testing</b></li>")
	if goTag < 0 || testingTag < 0 {
		t.Fatalf("missing tags in:\n%s", master)
	}
	if goTag > testingTag {
		t.Error("tags not in collated order")
	}
	if !strings.Contains(master, `<a href="/c/1686431433.html">Alpha</a>`) {
		t.Error("master page missing the post link")
	}

	goPage := readOutput(t, fsys, "t/go.html")
	if !strings.Contains(goPage, `Pages tagged "go"`) {
		t.Error("tag page missing its heading")
	}
	if !strings.Contains(goPage, "Alpha") || !strings.Contains(goPage, "Beta") {
		t.Error("tag page missing its posts")
	}
	if strings.Contains(goPage, "Odds") {
		t.Error("untagged post listed on a tag page")
	}
}

func TestGenerateFeed(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, testPosts)
	pages := loadTestPages(t, siteGen, fsys)

	err := siteGen.GenerateFeed(ctx, pages)
	if err != nil {
		t.Fatal(err)
	}
	raw := readOutput(t, fsys, "feed.xml")
	if !strings.HasPrefix(raw, xml.Header) {
		t.Error("missing the XML declaration")
	}
	if !strings.Contains(raw, "Odds &amp; Ends") {
		t.Error("item title not escaped")
	}

	var feed pragma.RSSFeed
	err = xml.Unmarshal([]byte(raw), &feed)
	if err != nil {
		t.Fatal(err)
	}
	if feed.Version != "2.0" {
		t.Errorf("got version %q", feed.Version)
	}
	if feed.Channel.Title != "Testing Grounds" {
		t.Errorf("got title %q", feed.Channel.Title)
	}
	if feed.Channel.Description != "notes from the bench" {
		t.Errorf("got description %q", feed.Channel.Description)
	}
	if feed.Channel.Generator != "pragma-web" {
		t.Errorf("got generator %q", feed.Channel.Generator)
	}
	if feed.Channel.Language != "en-us" {
		t.Errorf("got language %q", feed.Channel.Language)
	}
	if len(feed.Channel.Items) != 3 {
		t.Fatalf("got %d items", len(feed.Channel.Items))
	}
	item := feed.Channel.Items[0]
	if item.Title != "Alpha" {
		t.Errorf("got first item %q, want the newest post", item.Title)
	}
	if item.Link != "https://test.example/c/1686431433.html" || item.GUID != item.Link {
		t.Errorf("got link %q, guid %q", item.Link, item.GUID)
	}
	if item.Description != "about alpha" {
		t.Errorf("got description %q", item.Description)
	}
	pubDate, err := time.Parse(time.RFC1123Z, item.PubDate)
	if err != nil {
		t.Fatalf("unparseable pubDate %q: %v", item.PubDate, err)
	}
	if pubDate.Unix() != 1686431433 {
		t.Errorf("got pubDate %v", pubDate)
	}

	t.Run("tagline fallback", func(t *testing.T) {
		siteGen.Site.Tagline = ""
		err := siteGen.GenerateFeed(ctx, pages)
		if err != nil {
			t.Fatal(err)
		}
		var feed pragma.RSSFeed
		err = xml.Unmarshal([]byte(readOutput(t, fsys, "feed.xml")), &feed)
		if err != nil {
			t.Fatal(err)
		}
		if feed.Channel.Description != "Latest posts from Testing Grounds" {
			t.Errorf("got description %q", feed.Channel.Description)
		}
	})

	t.Run("capped at twenty items", func(t *testing.T) {
		siteGen, fsys := newTestSite(t, testConfig, manyPosts(25))
		pages := loadTestPages(t, siteGen, fsys)
		err := siteGen.GenerateFeed(ctx, pages)
		if err != nil {
			t.Fatal(err)
		}
		var feed pragma.RSSFeed
		err = xml.Unmarshal([]byte(readOutput(t, fsys, "feed.xml")), &feed)
		if err != nil {
			t.Fatal(err)
		}
		if len(feed.Channel.Items) != 20 {
			t.Fatalf("got %d items", len(feed.Channel.Items))
		}
		if feed.Channel.Items[0].Title != "Post 25" {
			t.Errorf("got first item %q", feed.Channel.Items[0].Title)
		}
	})
}

func TestGenerateAllBuildFlags(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig+"build_tags: no\nbuild_scroll: no\n", testPosts)
	pages := loadTestPages(t, siteGen, fsys)

	err := siteGen.GenerateAll(ctx, pages, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"index.html", "feed.xml", "c/1686431433.html"} {
		_, err := fs.Stat(fsys.WithContext(ctx), name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	for _, name := range []string{"t/index.html", "s/index.html"} {
		_, err := fs.Stat(fsys.WithContext(ctx), name)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("%s: got %v, want not exist", name, err)
		}
	}
}

func TestDryRun(t *testing.T) {
	ctx := context.Background()
	fsys := newSiteDir(t, testConfig, testPosts)
	siteGen, err := pragma.NewSiteGenerator(ctx, pragma.SiteGeneratorConfig{
		SourceFS: fsys,
		OutputFS: fsys,
		DryRun:   true,
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	pages := loadTestPages(t, siteGen, fsys)

	err = siteGen.GenerateAll(ctx, pages, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"index.html", "feed.xml", "c/1686431433.html", "t/index.html", "s/index.html",
	} {
		_, err := fs.Stat(fsys.WithContext(ctx), name)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("%s: got %v, want not exist", name, err)
		}
	}
}

func TestNoTokenLeaks(t *testing.T) {
	ctx := context.Background()
	siteGen, fsys := newTestSite(t, testConfig, testPosts)
	pages := loadTestPages(t, siteGen, fsys)

	err := siteGen.GenerateAll(ctx, pages, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	tokens := []string{
		"{TITLE}", "{DATE}", "{TAGS}", "{BACK}", "{FORWARD}", "{PAGETITLE}",
		"{MAIN_IMAGE}", "{SITE_NAME}", "{PAGE_URL}", "{TITLE_FOR_META}",
		"{DESCRIPTION}", "{CONTENT}", "{ICON}", "{POST_URL}", "{PREV_URL}",
		"{NEXT_URL}", "{PREV_TITLE}", "{NEXT_TITLE}", "{TAG}", "{TAG_URL}", "#MORE",
		"<!-- IF", "<!-- LOOP", "<!-- END",
	}
	for _, name := range []string{
		"index.html",
		"c/1686431433.html", "c/1672574400.html", "c/1659355200.html",
		"s/index.html",
		"t/index.html", "t/go.html", "t/testing.html",
		"feed.xml",
	} {
		got := readOutput(t, fsys, name)
		for _, token := range tokens {
			if strings.Contains(got, token) {
				t.Errorf("%s leaked into %s", token, name)
			}
		}
	}
}

func TestAssignIcons(t *testing.T) {
	ctx := context.Background()
	fsys := newSiteDir(t, testConfig, nil)
	writeTestFile(t, fsys, "img/icons/a.svg", "<svg/>")
	writeTestFile(t, fsys, "img/icons/b.svg", "<svg/>")
	siteGen, err := pragma.NewSiteGenerator(ctx, pragma.SiteGeneratorConfig{
		SourceFS: fsys,
		OutputFS: fsys,
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(siteGen.Site.Icons) != 2 {
		t.Fatalf("got icon pool %v", siteGen.Site.Icons)
	}

	static := &pragma.Page{Title: "static", StaticIcon: "a.svg"}
	missing := &pragma.Page{Title: "missing", StaticIcon: "ghost.svg"}
	random := &pragma.Page{Title: "random"}
	siteGen.AssignIcons(ctx, []*pragma.Page{static, missing, random}, rand.New(rand.NewSource(1)))

	if static.Icon != "a.svg" {
		t.Errorf("got icon %q, want the static icon", static.Icon)
	}
	if !slices.Contains(siteGen.Site.Icons, missing.Icon) {
		t.Errorf("got icon %q for a missing static icon, want one from the pool", missing.Icon)
	}
	if !slices.Contains(siteGen.Site.Icons, random.Icon) {
		t.Errorf("got icon %q, want one from the pool", random.Icon)
	}

	t.Run("empty pool", func(t *testing.T) {
		siteGen, _ := newTestSite(t, testConfig, nil)
		page := &pragma.Page{Title: "bare"}
		siteGen.AssignIcons(ctx, []*pragma.Page{page}, rand.New(rand.NewSource(1)))
		if page.Icon != "" {
			t.Errorf("got icon %q, want none", page.Icon)
		}
	})
}

func TestTemplateOverride(t *testing.T) {
	ctx := context.Background()
	fsys := newSiteDir(t, testConfig, testPosts)
	writeTestFile(t, fsys, "templates/index_item.html", "<article>{TITLE}</article>\n")
	siteGen, err := pragma.NewSiteGenerator(ctx, pragma.SiteGeneratorConfig{
		SourceFS: fsys,
		OutputFS: fsys,
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	pages := loadTestPages(t, siteGen, fsys)
	_, err = siteGen.GenerateIndexes(ctx, pages)
	if err != nil {
		t.Fatal(err)
	}
	got := readOutput(t, fsys, "index.html")
	if !strings.Contains(got, "<article>Alpha</article>") {
		t.Errorf("override not used in:\n%s", got)
	}

	t.Run("single page override", func(t *testing.T) {
		fsys := newSiteDir(t, testConfig, testPosts)
		writeTestFile(t, fsys, "templates/single_page.html", "<main>{CONTENT}</main>\n")
		siteGen, err := pragma.NewSiteGenerator(ctx, pragma.SiteGeneratorConfig{
			SourceFS: fsys,
			OutputFS: fsys,
			Logger:   testLogger(),
		})
		if err != nil {
			t.Fatal(err)
		}
		pages := loadTestPages(t, siteGen, fsys)
		err = siteGen.GeneratePage(ctx, pages[0])
		if err != nil {
			t.Fatal(err)
		}
		got := readOutput(t, fsys, "c/1686431433.html")
		if !strings.Contains(got, "<main><p>First paragraph.</p>") {
			t.Errorf("override not used in:\n%s", got)
		}
	})

	t.Run("malformed template still constructs", func(t *testing.T) {
		fsys := newSiteDir(t, testConfig, nil)
		writeTestFile(t, fsys, "templates/navigation.html", "<!-- LOOP tags -->{TAG}")
		_, err := pragma.NewSiteGenerator(ctx, pragma.SiteGeneratorConfig{
			SourceFS: fsys,
			OutputFS: fsys,
			Logger:   testLogger(),
		})
		if err != nil {
			t.Fatal(err)
		}
	})
}
