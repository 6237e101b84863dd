package extract

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/interval"
)

// Default sampling parameters.
const (
	DefaultAttempts     = 5
	DefaultExpandFactor = 0.03
)

// Recognizer reads the text inside a region of the current image.
//
// Implementations may fail or return garbage; the Aggregator treats both as
// an attempt without signal.
type Recognizer interface {
	Recognize(ctx context.Context, region imaging.Region) (string, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, region imaging.Region) (string, error)

// Recognize calls f.
func (f RecognizerFunc) Recognize(ctx context.Context, region imaging.Region) (string, error) {
	return f(ctx, region)
}

// Attempt describes one sampling attempt.
type Attempt struct {
	// Index is 1-based.
	Index  int
	Region imaging.Region
	// Tokens are the snapped intervals read during this attempt.
	Tokens []string
	Err    error
}

// Observer is notified after every attempt.
type Observer func(Attempt)

// Result is the outcome of one aggregation run.
type Result struct {
	// Intervals are the most frequent snapped intervals in chronological
	// order. Empty when no attempt produced an interval.
	Intervals []string `json:"intervals"`

	Tally    map[string]int   `json:"tally"`
	Sampled  []imaging.Region `json:"sampled"`
	Attempts int              `json:"attempts"`
}

// Failed reports whether the run produced no interval.
func (r Result) Failed() bool {
	return len(r.Intervals) == 0
}

// Aggregator samples a region several times, growing it slightly between
// attempts, and keeps the intervals read most often.
//
// The zero value is not usable; Recognizer must be set. Attempts and
// ExpandFactor default to DefaultAttempts and DefaultExpandFactor.
type Aggregator struct {
	Recognizer   Recognizer
	Attempts     int
	ExpandFactor float64
	Logger       *zap.Logger
	Observer     Observer
}

// Run samples region within a canvas of maxW x maxH pixels.
//
// Attempts run one after another. A recognizer error or empty text counts as
// zero observations. All intervals sharing the highest count are returned.
func (a *Aggregator) Run(ctx context.Context, region imaging.Region, maxW, maxH float64) Result {
	attempts := a.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	factor := a.ExpandFactor
	if factor <= 0 {
		factor = DefaultExpandFactor
	}
	log := a.Logger
	if log == nil {
		log = zap.NewNop()
	}

	res := Result{
		Tally:    make(map[string]int),
		Sampled:  make([]imaging.Region, 0, attempts),
		Attempts: attempts,
	}

	current := region
	for i := 1; i <= attempts; i++ {
		res.Sampled = append(res.Sampled, current)

		at := Attempt{Index: i, Region: current}
		text, err := a.Recognizer.Recognize(ctx, current)
		if err != nil {
			at.Err = err
			log.Warn("recognition failed",
				zap.Int("attempt", i),
				zap.Stringer("region", current),
				zap.Error(err))
		} else {
			for _, raw := range interval.Parse(text) {
				snapped := interval.Snap(raw)
				res.Tally[snapped]++
				at.Tokens = append(at.Tokens, snapped)
			}
			if len(at.Tokens) == 0 {
				log.Debug("no interval recognized",
					zap.Int("attempt", i),
					zap.Stringer("region", current))
			}
		}

		if a.Observer != nil {
			a.Observer(at)
		}

		current = current.Expand(factor, maxW, maxH)
	}

	res.Intervals = winners(res.Tally)
	log.Debug("aggregation done",
		zap.Strings("intervals", res.Intervals),
		zap.Int("distinct", len(res.Tally)))
	return res
}

// winners returns every key holding the maximum count, sorted.
func winners(tally map[string]int) []string {
	best := 0
	for _, n := range tally {
		if n > best {
			best = n
		}
	}
	out := []string{}
	if best == 0 {
		return out
	}
	for k, n := range tally {
		if n == best {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
