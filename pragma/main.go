package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/wsshaw/pragma"
	"github.com/wsshaw/pragma/cli"
)

func main() {
	err := func() error {
		var verbose bool
		flagset := flag.NewFlagSet("", flag.ContinueOnError)
		flagset.BoolVar(&verbose, "verbose", false, "")
		flagset.Usage = func() {
			fmt.Fprintln(flagset.Output(), `Usage:
  pragma [-verbose] init [dir]    # scaffold a new site
  pragma [-verbose] build [flags] # build a site (see pragma build -h)
  pragma version                  # print the version`)
		}
		err := flagset.Parse(os.Args[1:])
		if err != nil {
			return err
		}
		logLevel := slog.LevelInfo
		if verbose {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
		args := flagset.Args()
		if len(args) == 0 {
			flagset.Usage()
			return fmt.Errorf("no command given")
		}
		switch args[0] {
		case "init":
			cmd, err := cli.InitCommand(logger, args[1:]...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			err = cmd.Run()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return nil
		case "build":
			cmd, err := cli.BuildCommand(logger, args[1:]...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			err = cmd.Run()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return nil
		case "version":
			fmt.Println(pragma.Version)
			return nil
		default:
			return fmt.Errorf("unknown command: %s", args[0])
		}
	}()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
