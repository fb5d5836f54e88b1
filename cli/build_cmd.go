package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/wsshaw/pragma"
)

type BuildCmd struct {
	SiteGenerator *pragma.SiteGenerator
	SourceFS      pragma.FS
	Stdout        io.Writer
	Logger        *slog.Logger

	// All forces a rebuild of every post, the default behavior spelled
	// out. Conflicts with UpdatedOnly.
	All bool

	// UpdatedOnly rebuilds only the posts whose source files changed
	// since the last recorded run. Aggregate pages are always rebuilt.
	UpdatedOnly bool

	// DryRun loads and renders the whole site without writing anything.
	DryRun bool
}

// BuildCommand builds a site: it loads the posts under the source
// directory's dat/, converts them, and generates every page of the site
// into the output directory.
func BuildCommand(logger *slog.Logger, args ...string) (*BuildCmd, error) {
	var cmd BuildCmd
	var siteDir, outDir string
	cmd.Logger = logger
	flagset := flag.NewFlagSet("", flag.ContinueOnError)
	flagset.StringVar(&siteDir, "site", ".", "")
	flagset.StringVar(&outDir, "out", "", "")
	flagset.BoolVar(&cmd.All, "all", false, "")
	flagset.BoolVar(&cmd.UpdatedOnly, "updated", false, "")
	flagset.BoolVar(&cmd.DryRun, "dry-run", false, "")
	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), `Usage:
  pragma build                     # build the site in the current directory
  pragma build -site SRC -out DEST # read sources from SRC, write pages into DEST
  pragma build -updated            # only rebuild posts changed since the last run
  pragma build -all                # rebuild every post
  pragma build -dry-run            # render everything, write nothing`)
	}
	err := flagset.Parse(args)
	if err != nil {
		return nil, err
	}
	if flagset.NArg() > 0 {
		flagset.Usage()
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(flagset.Args(), " "))
	}
	if cmd.All && cmd.UpdatedOnly {
		return nil, fmt.Errorf("cannot use -all and -updated together")
	}
	if outDir == "" {
		outDir = siteDir
	}
	sourceFS, err := SiteFS(siteDir)
	if err != nil {
		return nil, err
	}
	outputFS, err := SiteFS(outDir)
	if err != nil {
		return nil, err
	}
	cmd.SourceFS = sourceFS
	cmd.SiteGenerator, err = pragma.NewSiteGenerator(context.Background(), pragma.SiteGeneratorConfig{
		SourceFS: sourceFS,
		OutputFS: outputFS,
		DryRun:   cmd.DryRun,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}

func (cmd *BuildCmd) Run() error {
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Logger == nil {
		cmd.Logger = slog.Default()
	}
	ctx := context.Background()
	siteGen := cmd.SiteGenerator
	pages, err := pragma.LoadPages(ctx, cmd.SourceFS, cmd.Logger)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages found")
	}
	cmd.Logger.Info("loaded pages", "count", len(pages))
	err = siteGen.ConvertAll(ctx, pages)
	if err != nil {
		return err
	}
	siteGen.AssignIcons(ctx, pages, rand.New(rand.NewSource(time.Now().UnixNano())))
	if cmd.DryRun {
		cmd.Logger.Debug("loaded site model", "dump", spew.Sdump(siteGen.Site, pages))
	}
	var since time.Time
	if cmd.UpdatedOnly {
		since = pragma.LastRun(ctx, cmd.SourceFS)
		if since.IsZero() {
			cmd.Logger.Warn("no recorded last run, rebuilding everything")
		} else {
			cmd.Logger.Info("rebuilding posts changed since last run", "since", since)
		}
	}
	err = siteGen.GenerateAll(ctx, pages, since)
	if err != nil {
		return err
	}
	if cmd.DryRun {
		fmt.Fprintln(cmd.Stdout, "dry run complete, no files written")
		return nil
	}
	err = pragma.SaveLastRun(ctx, cmd.SourceFS, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Stdout, "site built")
	return nil
}
