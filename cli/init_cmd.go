package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wsshaw/pragma"
)

type InitCmd struct {
	FS     pragma.FS
	Stdout io.Writer
	Logger *slog.Logger
}

// InitCommand scaffolds a new site in the given directory (the current
// directory if none is given), creating it if it does not exist.
func InitCommand(logger *slog.Logger, args ...string) (*InitCmd, error) {
	var cmd InitCmd
	cmd.Logger = logger
	flagset := flag.NewFlagSet("", flag.ContinueOnError)
	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), `Usage:
  pragma init        # scaffold a new site in the current directory
  pragma init mysite # scaffold a new site in mysite/`)
	}
	err := flagset.Parse(args)
	if err != nil {
		return nil, err
	}
	if flagset.NArg() > 1 {
		flagset.Usage()
		return nil, fmt.Errorf("expected at most one directory argument")
	}
	dir := flagset.Arg(0)
	if dir == "" {
		dir = "."
	}
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}
	cmd.FS, err = SiteFS(dir)
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}

func (cmd *InitCmd) Run() error {
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Logger == nil {
		cmd.Logger = slog.Default()
	}
	err := pragma.InitSite(context.Background(), cmd.FS, cmd.Logger)
	if err != nil {
		return err
	}
	directoryFS, ok := &pragma.DirectoryFS{}, false
	switch v := cmd.FS.(type) {
	case interface{ As(any) bool }:
		ok = v.As(&directoryFS)
	}
	if ok {
		fmt.Fprintln(cmd.Stdout, "created a new site in "+directoryFS.RootDir)
	} else {
		fmt.Fprintln(cmd.Stdout, "created a new site")
	}
	fmt.Fprintln(cmd.Stdout, "edit pragma_config.yml, then run `pragma build` to build it")
	return nil
}
