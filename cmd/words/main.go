// Command words curates the SQLite word list the server draws secret words
// from. Changes apply to rooms created after the next server start.
//
//	words [-db path] list
//	words [-db path] add WORD...
//	words [-db path] disable WORD...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"sketchguess/internal/config"
	"sketchguess/internal/wordstore"
)

var errUsage = errors.New("usage: words [-db path] list | add WORD... | disable WORD...")

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, os.Args[1:], cfg.Storage.WordsDBPath, os.Stdout); err != nil {
		cancel()
		logger.Error("words command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, defaultPath string, out io.Writer) error {
	fs := flag.NewFlagSet("words", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dbPath := fs.String("db", defaultPath, "word database path (defaults to WORDS_DB_PATH)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}
	cmd, words := rest[0], rest[1:]

	switch cmd {
	case "list":
	case "add", "disable":
		if len(words) == 0 {
			return errUsage
		}
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	if *dbPath == "" {
		return errors.New("no word database: set WORDS_DB_PATH or pass -db")
	}

	store, err := wordstore.Open(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch cmd {
	case "add":
		for _, w := range words {
			if err := store.Add(ctx, w); err != nil {
				return err
			}
			fmt.Fprintf(out, "added %s\n", w)
		}
	case "disable":
		for _, w := range words {
			if err := store.Disable(ctx, w); err != nil {
				return err
			}
			fmt.Fprintf(out, "disabled %s\n", w)
		}
	case "list":
		list, err := store.Words(ctx)
		if err != nil {
			return err
		}
		for _, w := range list {
			fmt.Fprintln(out, w)
		}
	}
	return nil
}
