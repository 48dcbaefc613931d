package sigil

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

// Match is an identifier which was minted for one of a Scanner's keys.
type Match struct {
	Identifier Identifier // The matching identifier.
	KeyIndex   int        // The index of the matching key in the Scanner's keys.
	Sender     *PublicKey // The public key of the identifier's sender.
}

// ScanStats counts the identifiers a Scanner has seen.
type ScanStats struct {
	Scanned  int64 // Identifiers checked.
	Matched  int64 // Identifiers minted for one of the keys.
	Rejected int64 // Identifiers which could not be decoded.
}

// Scanner checks a stream of candidate identifiers against a set of private keys using a pool of
// workers. Undecodable and non-matching candidates are counted and dropped.
type Scanner struct {
	id     string
	scheme *Scheme
	keys   []*PrivateKey
	pool   *ants.Pool
	logger zerolog.Logger

	workers                    int
	scanned, matched, rejected atomic.Int64
}

// ScanOption configures a Scanner.
type ScanOption func(*Scanner)

// WithWorkers sets the number of concurrent workers. The default is GOMAXPROCS.
func WithWorkers(n int) ScanOption {
	return func(sc *Scanner) {
		sc.workers = n
	}
}

// WithLogger sets the scanner's logger. The default discards all logs.
func WithLogger(logger zerolog.Logger) ScanOption {
	return func(sc *Scanner) {
		sc.logger = logger
	}
}

// NewScanner returns a Scanner which checks identifiers against the given keys.
func NewScanner(s *Scheme, keys []*PrivateKey, opts ...ScanOption) (*Scanner, error) {
	if len(keys) == 0 {
		return nil, errors.New("no keys to scan for")
	}

	sc := &Scanner{
		id:     "scan-" + uuid.New().String()[:8],
		scheme: s,
		keys:   keys,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(sc)
	}

	if sc.workers <= 0 {
		sc.workers = runtime.GOMAXPROCS(0)
	}

	pool, err := ants.NewPool(sc.workers, ants.WithPreAlloc(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	sc.pool = pool
	sc.logger = sc.logger.With().Str("scan_id", sc.id).Logger()

	return sc, nil
}

// ID returns the scanner's random ID, as it appears in logs.
func (sc *Scanner) ID() string {
	return sc.id
}

// Scan checks every identifier received from in and sends any matches to the returned channel.
// The returned channel is closed once in is closed and all identifiers have been checked, or
// once ctx is cancelled. Identifiers must not be modified after they are sent.
func (sc *Scanner) Scan(ctx context.Context, in <-chan Identifier) <-chan Match {
	out := make(chan Match)

	go func() {
		var wg sync.WaitGroup

		defer close(out)
		defer wg.Wait()

		sc.logger.Info().Int("workers", sc.workers).Int("keys", len(sc.keys)).Msg("scan starting")

		for {
			var (
				id Identifier
				ok bool
			)

			select {
			case <-ctx.Done():
				sc.logger.Info().Err(ctx.Err()).Msg("scan cancelled")

				return
			case id, ok = <-in:
			}

			if !ok {
				sc.logger.Info().Interface("stats", sc.Stats()).Msg("scan input closed")

				return
			}

			wg.Add(1)

			if err := sc.pool.Submit(func() {
				defer wg.Done()
				sc.check(ctx, id, out)
			}); err != nil {
				wg.Done()
				sc.logger.Error().Err(err).Msg("failed to submit identifier")

				return
			}
		}
	}()

	return out
}

// Stats returns the scanner's running totals.
func (sc *Scanner) Stats() ScanStats {
	return ScanStats{
		Scanned:  sc.scanned.Load(),
		Matched:  sc.matched.Load(),
		Rejected: sc.rejected.Load(),
	}
}

// Close releases the scanner's workers.
func (sc *Scanner) Close() {
	sc.pool.Release()
}

func (sc *Scanner) check(ctx context.Context, id Identifier, out chan<- Match) {
	sc.scanned.Add(1)

	// Decoding the sender doesn't depend on the key, so do it once.
	sender, tag, err := sc.scheme.split(id)
	if err != nil {
		sc.rejected.Add(1)
		sc.logger.Debug().Err(err).Stringer("id", id).Msg("rejected identifier")

		return
	}

	for i, sk := range sc.keys {
		if err := sc.scheme.match(sk, sender, tag); err != nil {
			continue
		}

		sc.matched.Add(1)
		sc.logger.Debug().Stringer("id", id).Int("key", i).Msg("matched identifier")

		select {
		case out <- Match{Identifier: id, KeyIndex: i, Sender: sender}:
		case <-ctx.Done():
		}

		return
	}
}
