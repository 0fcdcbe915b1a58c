// Command minitar creates, extends, lists, updates and extracts archives.
//
// Usage:
//
//	minitar -c|-a|-t|-u|-x -f ARCHIVE [FILE...]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/meigma/minitar"
)

const usageLine = "usage: minitar -c|-a|-t|-u|-x [-v] [-C DIR] -f ARCHIVE [--] [FILE...]"

const notPresentMsg = "Error: One or more of the specified files is not already present in archive"

type mode int

const (
	modeNone mode = iota
	modeCreate
	modeAppend
	modeList
	modeUpdate
	modeExtract
)

type options struct {
	mode    mode
	archive string
	verbose bool
	dir     string
	files   []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, code, ok := parseArgs(args, stderr)
	if !ok {
		return code
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	common := []minitar.Option{minitar.WithLogger(logger)}

	var err error
	switch opts.mode {
	case modeCreate:
		err = minitar.Create(ctx, opts.archive, opts.files, common...)
	case modeAppend:
		err = minitar.Append(ctx, opts.archive, opts.files, common...)
	case modeList:
		err = list(ctx, stdout, opts, common)
	case modeUpdate:
		err = minitar.Update(ctx, opts.archive, opts.files, common...)
		if errors.Is(err, minitar.ErrFileNotInArchive) {
			fmt.Fprintln(stdout, notPresentMsg)
			return 1
		}
	case modeExtract:
		err = minitar.Extract(ctx, opts.archive, minitar.WithLogger(logger), minitar.ExtractWithDir(opts.dir))
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseArgs parses the command line. When ok is false the caller exits with
// code.
func parseArgs(args []string, stderr io.Writer) (opts options, code int, ok bool) {
	fs := flag.NewFlagSet("minitar", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintln(stderr, usageLine); fs.PrintDefaults() }

	var c, a, t, u, x bool
	fs.BoolVar(&c, "c", false, "create a new archive")
	fs.BoolVar(&a, "a", false, "append files to an archive")
	fs.BoolVar(&t, "t", false, "list archive members")
	fs.BoolVar(&u, "u", false, "append newer copies of files already in the archive")
	fs.BoolVar(&x, "x", false, "extract the archive")
	fs.StringVar(&opts.archive, "f", "", "archive `path`")
	fs.BoolVar(&opts.verbose, "v", false, "verbose listing and debug logging")
	fs.StringVar(&opts.dir, "C", "", "extract into `dir`")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, false
		}
		return opts, 2, false
	}

	selected := 0
	for m, set := range map[mode]bool{modeCreate: c, modeAppend: a, modeList: t, modeUpdate: u, modeExtract: x} {
		if set {
			opts.mode = m
			selected++
		}
	}
	if selected != 1 || opts.archive == "" {
		fmt.Fprintln(stderr, usageLine)
		return opts, 1, false
	}
	opts.files = fs.Args()

	// Flags after the first operand are not parsed; reject them unless the
	// operands follow an explicit "--".
	terminated := len(opts.files) < len(args) && args[len(args)-len(opts.files)-1] == "--"
	if !terminated {
		for _, name := range opts.files {
			if strings.HasPrefix(name, "-") {
				fmt.Fprintf(stderr, "flag %s must precede file operands\n", name)
				fmt.Fprintln(stderr, usageLine)
				return opts, 2, false
			}
		}
	}
	return opts, 0, true
}

// list prints member names, or one detailed line per header with -v.
func list(ctx context.Context, w io.Writer, opts options, common []minitar.Option) error {
	if !opts.verbose {
		names, err := minitar.List(opts.archive, common...)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
		return nil
	}

	members, err := minitar.Inspect(ctx, opts.archive, common...)
	if err != nil {
		return err
	}
	for _, m := range members {
		fmt.Fprintf(w, "%s %s/%s %8d %s %s %s\n",
			m.Mode, m.Uname, m.Gname, m.Size,
			m.ModTime.Format(time.DateTime), m.Digest.Encoded()[:12], m.Name)
	}
	return nil
}
