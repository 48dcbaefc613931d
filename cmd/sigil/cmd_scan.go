package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/codahale/sigil/pkg/sigil"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type scanCmd struct {
	PrivateKeys []string `arg:"" name:"private-key" repeated:"" help:"The paths to the private keys to scan for."`

	Input   string `type:"path" default:"-" help:"The input path for identifiers, one hex identifier per line."`
	Output  string `type:"path" default:"-" help:"The output path for matches."`
	Workers int    `help:"The number of concurrent workers, overriding the configuration."`
}

func (cmd *scanCmd) Run(e *env) error {
	// Decrypt the private keys.
	keys := make([]*sigil.PrivateKey, len(cmd.PrivateKeys))

	for i, path := range cmd.PrivateKeys {
		sk, err := e.decryptPrivateKey(path)
		if err != nil {
			return err
		}

		keys[i] = sk
	}

	workers := e.cfg.Scan.Workers
	if cmd.Workers > 0 {
		workers = cmd.Workers
	}

	sc, err := sigil.NewScanner(e.scheme, keys, sigil.WithWorkers(workers), sigil.WithLogger(e.logger.Logger))
	if err != nil {
		return err
	}

	defer sc.Close()

	// Open the input and output.
	src, err := openInput(cmd.Input)
	if err != nil {
		return err
	}

	defer func() { _ = src.Close() }()

	dst, err := openOutput(cmd.Output)
	if err != nil {
		return err
	}

	defer func() { _ = dst.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = scanLines(ctx, sc, e.logger.Logger, src, dst)
	stats := sc.Stats()

	e.logger.Info().
		Str("scan_id", sc.ID()).
		Int64("scanned", stats.Scanned).
		Int64("matched", stats.Matched).
		Int64("rejected", stats.Rejected).
		Msg("scan finished")

	return err
}

// scanLines reads hex identifiers from src, one per line, and writes a line for each match to dst
// in the form "<identifier> <key index> <sender>". Malformed lines are logged and skipped.
func scanLines(ctx context.Context, sc *sigil.Scanner, logger zerolog.Logger, src io.Reader, dst io.Writer) error {
	g, ctx := errgroup.WithContext(ctx)
	ids := make(chan sigil.Identifier)

	// Read identifiers from the input.
	g.Go(func() error {
		defer close(ids)

		lines := bufio.NewScanner(src)
		for lines.Scan() {
			line := bytes.TrimSpace(lines.Bytes())
			if len(line) == 0 {
				continue
			}

			var id sigil.Identifier
			if err := id.UnmarshalText(line); err != nil {
				logger.Warn().Err(err).Msg("skipping malformed line")

				continue
			}

			select {
			case ids <- id:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return lines.Err()
	})

	matches := sc.Scan(ctx, ids)

	// Write matches to the output.
	g.Go(func() error {
		w := bufio.NewWriter(dst)

		for m := range matches {
			if _, err := fmt.Fprintf(w, "%s %d %s\n", m.Identifier, m.KeyIndex, m.Sender); err != nil {
				return err
			}
		}

		return w.Flush()
	})

	return g.Wait()
}
