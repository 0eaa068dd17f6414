package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"

	"github.com/reinteract/pythunk/pyrt"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "pythunk"
	app.Usage = "locate and bind the Python framework"
	app.Description = "inspects where the Python runtime would be found, which installs are acceptable, and whether the symbol manifest binds"
	app.Writer = out
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "framework-dir", Aliases: []string{"f"}, EnvVars: []string{pyrt.EnvFrameworkDir}, Usage: "search only this framework directory"},
		&cli.StringFlag{Name: "min-version", Aliases: []string{"m"}, EnvVars: []string{pyrt.EnvMinimumVersion}, Usage: "oldest acceptable runtime version"},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML file with framework_dir and minimum_version"},
	}
	app.Commands = []*cli.Command{
		{Name: "candidates", Action: candidates, Usage: "list candidate library paths in probe order"},
		{Name: "probe", Action: probe, Usage: "probe every candidate and report why it was accepted or rejected"},
		{Name: "init",
			Action: initialize,
			Usage:  "initialize the runtime and bind the symbol manifest",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "dump", Aliases: []string{"d"}, Usage: "dump the bound symbol table"},
			},
		},
	}
	return app
}

func settings(ctx *cli.Context) (searchSettings, error) {
	return resolveSettings(ctx.String("config"), ctx.String("framework-dir"), ctx.String("min-version"))
}

func candidates(ctx *cli.Context) error {
	s, err := settings(ctx)
	if err != nil {
		return err
	}
	out := ctx.App.Writer
	for c := range pyrt.Locate(s.frameworkDir) {
		state := "missing"
		if _, err := os.Stat(c.LibraryPath()); err == nil {
			state = "present"
		}
		fmt.Fprintf(out, "%-8s %s\n", state, c.LibraryPath())
	}
	return nil
}

func probe(ctx *cli.Context) error {
	s, err := settings(ctx)
	if err != nil {
		return err
	}
	opts := append(s.options(), pyrt.WithLogger(log.New(ctx.App.ErrWriter, "pythunk: ", 0)))
	out := ctx.App.Writer

	accepted := 0
	var loader pyrt.SystemLoader
	for c := range pyrt.Locate(s.frameworkDir) {
		lib, err := pyrt.Probe(c, opts...)
		switch {
		case pyrt.IsAbsent(err):
			fmt.Fprintf(out, "missing  %s\n", c.LibraryPath())
		case err != nil:
			fmt.Fprintf(out, "rejected %s: %v\n", c.LibraryPath(), err)
		default:
			accepted++
			fmt.Fprintf(out, "accepted %s (%s)\n", lib.Path, lib.Version)
			if err := loader.Close(lib.Handle); err != nil {
				fmt.Fprintf(ctx.App.ErrWriter, "failed to release %s: %v\n", lib.Path, err)
			}
		}
	}

	if accepted == 0 {
		return pyrt.ErrNotFound
	}
	return nil
}

func initialize(ctx *cli.Context) error {
	s, err := settings(ctx)
	if err != nil {
		return err
	}
	opts := append(s.options(), pyrt.WithLogger(log.New(ctx.App.ErrWriter, "pythunk: ", 0)))

	rt, err := pyrt.Initialize(opts...)
	if err != nil {
		var missing *pyrt.MissingSymbolError
		if errors.As(err, &missing) {
			return fmt.Errorf("runtime found but incomplete, %s is not exported: %w", missing.Name, err)
		}
		return err
	}

	out := ctx.App.Writer
	fmt.Fprintf(out, "library: %s\n", rt.LibraryPath())
	fmt.Fprintf(out, "version: %s\n", rt.VersionString())
	fmt.Fprintf(out, "symbols: %d bound\n", rt.Symbols().Len())
	if ctx.Bool("dump") {
		spew.Fdump(out, rt.Symbols().Symbols())
	}
	return nil
}
