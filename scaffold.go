package pragma

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/wsshaw/pragma/stacktrace"
)

// siteDirectories are created when a new site is initialized.
var siteDirectories = []string{
	"dat",
	"img",
	"img/icons",
	"a",
	"c",
	"t",
	"s",
	"templates",
}

// siteFiles are the skeleton files a new site starts with, copied out of
// embed/ verbatim.
var siteFiles = []string{
	"pragma_config.yml",
	"pragma_last_run.yml",
	"p.css",
	"j.js",
	"a/index.html",
	"_header.html",
	"_footer.html",
	"templates/post_card.html",
	"templates/single_page.html",
	"templates/navigation.html",
	"templates/index_item.html",
	"dat/sample_post.txt",
	"img/icons/default.svg",
}

// InitSite scaffolds a new site in fsys: the directory skeleton plus
// baseline configuration, header, footer, stylesheet, templates and a
// sample post. It refuses to run if the target already holds an
// initialized site.
func InitSite(ctx context.Context, fsys FS, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	_, err := fs.Stat(fsys.WithContext(ctx), configFile)
	if err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite an initialized site", configFile)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return stacktrace.New(err)
	}
	for _, dir := range siteDirectories {
		err := fsys.WithContext(ctx).MkdirAll(dir, 0755)
		if err != nil {
			return stacktrace.New(err)
		}
		logger.Info("created directory", "dir", dir)
	}
	for _, name := range siteFiles {
		b, err := fs.ReadFile(RuntimeFS, "embed/"+name)
		if err != nil {
			return stacktrace.New(err)
		}
		err = WriteFile(fsys.WithContext(ctx), name, b)
		if err != nil {
			return stacktrace.New(err)
		}
		logger.Info("created file", "file", name)
	}
	return nil
}
