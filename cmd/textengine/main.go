// Package main is the entry point for the textengine command.
//
// textengine loads a file into a buffer, optionally replays an edit script
// against it, and reports on the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/textengine/internal/config"
	"github.com/dshills/textengine/internal/engine/buffer"
	"github.com/dshills/textengine/internal/logger"
	"github.com/dshills/textengine/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	scriptPath string
	watch      bool
	line       int
	print      bool
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	log, closeLog, err := logger.New(logger.Options{
		Level:       cfg.Log.Level,
		File:        cfg.Log.File,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer closeLog()

	buf, err := openBuffer(opts.file, cfg.BufferOptions(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	buf.Subscribe(func(c buffer.TextChange) {
		log.Debug("text changed",
			zap.Int("pos", c.Position),
			zap.Int("inserted", len(c.Inserted)),
			zap.Int("deleted", c.DeletedLength),
			zap.Uint64("revision", uint64(c.Revision)),
		)
	})

	if opts.scriptPath == "" {
		return report(os.Stdout, buf, opts)
	}

	// The watcher starts before the script is first loaded so saves made
	// during the initial run are still delivered.
	var w *script.Watcher
	if opts.watch {
		w, err = script.NewWatcher(opts.scriptPath, cfg.Debounce(), log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer w.Close()
	}

	s, err := script.Load(opts.scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Every run of the script starts from the file as loaded.
	base := buf.Snapshot()
	if err := s.Apply(buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if code := report(os.Stdout, buf, opts); code != 0 || w == nil {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("watching script", zap.String("path", opts.scriptPath))

	err = w.Run(ctx, func(s *script.Script) error {
		buf.Restore(base)
		if err := s.Apply(buf); err != nil {
			return err
		}
		if report(os.Stdout, buf, opts) != 0 {
			return errors.New("report failed")
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openBuffer reads path into a new buffer. An empty path gives an empty
// buffer and "-" reads standard input.
func openBuffer(path string, opts []buffer.Option) (*buffer.Buffer, error) {
	switch path {
	case "":
		return buffer.New("", opts...)
	case "-":
		return buffer.NewFromReader(os.Stdin, opts...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := buffer.NewFromReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return buf, nil
}

// report writes buffer statistics and the requested content to w.
func report(w io.Writer, buf *buffer.Buffer, opts options) int {
	fmt.Fprintf(w, "length:   %d\n", buf.Length())
	fmt.Fprintf(w, "lines:    %d\n", buf.LineCount())
	fmt.Fprintf(w, "revision: %d\n", buf.RevisionID())

	if opts.line >= 0 {
		text, err := buf.LineText(opts.line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(w, "line %d:   %s\n", opts.line, text)
	}

	if opts.print {
		if _, err := buf.WriteTo(w); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(w)
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Edit script to apply (.toml, .yaml)")
	flag.StringVar(&opts.scriptPath, "s", "", "Edit script to apply (shorthand)")
	flag.BoolVar(&opts.watch, "watch", false, "Re-apply the script whenever it changes")
	flag.IntVar(&opts.line, "line", -1, "Print the text of this line (0-based)")
	flag.BoolVar(&opts.print, "print", false, "Print the final text")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textengine - rope text buffer tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage: textengine [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  textengine file.txt                    Print stats for a file\n")
		fmt.Fprintf(os.Stderr, "  textengine -line 3 file.txt            Print line 3\n")
		fmt.Fprintf(os.Stderr, "  textengine -s edits.yaml -print f.txt  Apply edits and print the result\n")
		fmt.Fprintf(os.Stderr, "  textengine -s edits.toml -watch f.txt  Re-apply edits on every save\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("textengine %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.watch && opts.scriptPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -watch requires -script\n")
		os.Exit(1)
	}

	switch flag.NArg() {
	case 0:
	case 1:
		opts.file = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: expected at most one file, got %d\n", flag.NArg())
		os.Exit(1)
	}

	return opts
}
