package pragma

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wsshaw/pragma/stacktrace"
	"gopkg.in/yaml.v3"
)

const (
	// configFile is the site configuration file, relative to the site root.
	configFile = "pragma_config.yml"

	// lastRunFile records the time of the last successful build as a bare
	// Unix epoch on its first line.
	lastRunFile = "pragma_last_run.yml"
)

// maxDateStamp is 2100-01-01. Dates beyond it (or before the epoch) are
// assumed to be typos and reset to zero, which sorts the post last.
const maxDateStamp = 4102444800

// flexBool accepts the loose booleans found in site configuration and
// front matter: true, yes and 1 in any case are true, anything else is
// false. Parsing never fails.
type flexBool bool

func (b *flexBool) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "true", "yes", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

type siteConfig struct {
	SiteName     string    `yaml:"site_name"`
	Tagline      string    `yaml:"tagline"`
	BaseURL      string    `yaml:"base_url"`
	DefaultImage string    `yaml:"default_image"`
	CSS          string    `yaml:"css"`
	JS           string    `yaml:"js"`
	Header       string    `yaml:"header"`
	Footer       string    `yaml:"footer"`
	IconsDir     string    `yaml:"icons_dir"`
	IndexSize    int       `yaml:"index_size"`
	ReadMore     *flexBool `yaml:"read_more"`
	BuildTags    *flexBool `yaml:"build_tags"`
	BuildScroll  *flexBool `yaml:"build_scroll"`
}

var configKeys = map[string]struct{}{
	"site_name": {}, "tagline": {}, "base_url": {}, "default_image": {},
	"css": {}, "js": {}, "header": {}, "footer": {}, "icons_dir": {},
	"index_size": {}, "read_more": {}, "build_tags": {}, "build_scroll": {},
}

// LoadConfig reads pragma_config.yml from the site root and resolves it
// into a Site. The header and footer options name files relative to the
// site root whose contents become Site.Header and Site.Footer; a missing
// header or footer file is an error. Unknown options are logged and
// skipped.
func LoadConfig(ctx context.Context, fsys FS, logger *slog.Logger) (*Site, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := fs.ReadFile(fsys.WithContext(ctx), configFile)
	if err != nil {
		return nil, stacktrace.New(err)
	}
	var config siteConfig
	err = yaml.Unmarshal(b, &config)
	if err != nil {
		return nil, stacktrace.New(err)
	}
	var raw map[string]any
	if yaml.Unmarshal(b, &raw) == nil {
		var unknown []string
		for key := range raw {
			if _, ok := configKeys[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			logger.Warn("bypassing unknown configuration option", "option", key)
		}
	}
	site := &Site{
		Name:         config.SiteName,
		Tagline:      config.Tagline,
		BaseURL:      config.BaseURL,
		DefaultImage: config.DefaultImage,
		CSS:          config.CSS,
		JS:           config.JS,
		IconsDir:     config.IconsDir,
		IndexSize:    config.IndexSize,
		ReadMore:     config.ReadMore == nil || bool(*config.ReadMore),
		BuildTags:    config.BuildTags == nil || bool(*config.BuildTags),
		BuildScroll:  config.BuildScroll == nil || bool(*config.BuildScroll),
		Location:     time.Local,
	}
	if site.BaseURL != "" && !strings.HasSuffix(site.BaseURL, "/") {
		site.BaseURL += "/"
	}
	if site.IndexSize < 1 {
		logger.Warn("invalid index_size, using 10", "index_size", config.IndexSize)
		site.IndexSize = 10
	}
	if site.IconsDir == "" {
		site.IconsDir = "img/icons/"
	}
	headerPath := config.Header
	if headerPath == "" {
		headerPath = "_header.html"
	}
	b, err = fs.ReadFile(fsys.WithContext(ctx), headerPath)
	if err != nil {
		return nil, stacktrace.New(err)
	}
	site.Header = string(b)
	footerPath := config.Footer
	if footerPath == "" {
		footerPath = "_footer.html"
	}
	b, err = fs.ReadFile(fsys.WithContext(ctx), footerPath)
	if err != nil {
		return nil, stacktrace.New(err)
	}
	site.Footer = string(b)
	return site, nil
}

// LoadPages reads every .txt file in the site's dat/ directory and
// returns the posts sorted newest first with their neighbor links set.
// Files that cannot be read are logged and skipped.
func LoadPages(ctx context.Context, fsys FS, logger *slog.Logger) ([]*Page, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dirEntries, err := fsys.WithContext(ctx).ReadDir("dat")
	if err != nil {
		return nil, stacktrace.New(err)
	}
	var pages []*Page
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}
		name := dirEntry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		page, err := ParsePageFile(ctx, fsys, "dat/"+name, logger)
		if err != nil {
			logger.Warn("skipping unreadable post", "file", name, "error", err)
			continue
		}
		pages = append(pages, page)
	}
	return SortPages(pages), nil
}

// ParsePageFile loads a single post source file: YAML front matter up to
// a ### line, then the body. Front matter that fails to parse is logged
// and treated as empty rather than failing the build, and a missing
// title falls back to one derived from the file name.
func ParsePageFile(ctx context.Context, fsys FS, name string, logger *slog.Logger) (*Page, error) {
	file, err := fsys.WithContext(ctx).Open(name)
	if err != nil {
		return nil, stacktrace.New(err)
	}
	defer file.Close()
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, stacktrace.New(err)
	}
	var b strings.Builder
	b.Grow(int(fileInfo.Size()))
	_, err = io.Copy(&b, file)
	if err != nil {
		return nil, stacktrace.New(err)
	}
	page := &Page{
		SourcePath:   name,
		LastModified: fileInfo.ModTime(),
		Parse:        true,
	}
	frontMatter, content := splitSource(strings.ReplaceAll(b.String(), "\r\n", "\n"))
	page.Content = content
	var meta struct {
		Title      string    `yaml:"title"`
		Tags       string    `yaml:"tags"`
		Date       string    `yaml:"date"`
		Summary    string    `yaml:"summary"`
		StaticIcon string    `yaml:"static_icon"`
		Parse      *flexBool `yaml:"parse"`
	}
	err = yaml.Unmarshal([]byte(frontMatter), &meta)
	if err != nil {
		logger.Warn("unparseable front matter, treating as empty", "file", name, "error", err)
	}
	page.Title = meta.Title
	page.Tags = SplitTags(meta.Tags)
	page.Date = meta.Date
	page.Summary = meta.Summary
	page.StaticIcon = meta.StaticIcon
	if meta.Parse != nil {
		page.Parse = bool(*meta.Parse)
	}
	if page.Title == "" {
		page.Title = TitleFromPath(name)
	}
	if meta.Date != "" {
		stamp, err := strconv.ParseFloat(strings.TrimSpace(meta.Date), 64)
		if err != nil {
			logger.Warn("invalid date, using 0", "file", name, "date", meta.Date)
		}
		page.DateStamp = int64(stamp)
	}
	if page.DateStamp < 0 || page.DateStamp > maxDateStamp {
		logger.Warn("invalid timestamp, using 0", "file", name, "timestamp", page.DateStamp)
		page.DateStamp = 0
	}
	return page, nil
}

// splitSource splits a post file into front matter and content. The
// front matter runs until the first ### line; the content runs until the
// next ### line or the end of the file. A file with no ### line is all
// front matter.
func splitSource(text string) (frontMatter, content string) {
	const marker = "###\n"
	if rest, ok := strings.CutPrefix(text, marker); ok {
		content = rest
	} else if i := strings.Index(text, "\n"+marker); i >= 0 {
		frontMatter = text[:i+1]
		content = text[i+1+len(marker):]
	} else {
		return text, ""
	}
	if strings.HasPrefix(content, marker) {
		return frontMatter, ""
	}
	if i := strings.Index(content, "\n"+marker); i >= 0 {
		content = content[:i+1]
	}
	return frontMatter, content
}

// LastRun returns the time of the previous successful build recorded in
// pragma_last_run.yml, or the zero time if the site has never been
// built.
func LastRun(ctx context.Context, fsys FS) time.Time {
	b, err := fs.ReadFile(fsys.WithContext(ctx), lastRunFile)
	if err != nil {
		return time.Time{}
	}
	line, _, _ := strings.Cut(string(b), "\n")
	epoch, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil || epoch <= 0 {
		return time.Time{}
	}
	return time.Unix(epoch, 0)
}

// SaveLastRun records now as the last successful build time.
func SaveLastRun(ctx context.Context, fsys FS, now time.Time) error {
	return WriteFile(fsys.WithContext(ctx), lastRunFile, []byte(strconv.FormatInt(now.Unix(), 10)+"\n"))
}
