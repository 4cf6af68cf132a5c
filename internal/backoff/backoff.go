package backoff

import (
	"math/rand"
	"time"
)

// Config holds the parameters of an exponential backoff schedule.
type Config struct {
	// Initial is the first delay handed out after a failure.
	Initial time.Duration

	// Max caps the delay; growth stops here.
	Max time.Duration

	// Multiplier is the factor by which the delay grows per failure.
	Multiplier float64

	// Jitter randomizes each delay by ±Jitter (0.1 means ±10%).
	// Zero disables randomization.
	Jitter float64

	// ResetAfter is how long a connection must stay healthy before the
	// schedule drops back to Initial.
	ResetAfter time.Duration

	// MaxRetries limits how many delays the schedule hands out before
	// Exhausted reports true. Zero means unlimited, which is the
	// default: stream errors are retried forever.
	MaxRetries int

	// Rand is the jitter source. A seeded source makes the schedule
	// deterministic; nil falls back to a time-seeded source.
	Rand *rand.Rand
}

// DefaultConfig mirrors the watch client defaults: half a second growing
// to thirty, reset after a minute of healthy streaming.
func DefaultConfig() Config {
	return Config{
		Initial:    500 * time.Millisecond,
		Max:        30 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
		ResetAfter: time.Minute,
	}
}

// Schedule hands out successive reconnect delays. Not safe for concurrent
// use; the resilient watcher is its single caller.
type Schedule struct {
	cfg     Config
	current time.Duration
	retries int
}

func New(cfg Config) *Schedule {
	if cfg.Initial <= 0 {
		cfg.Initial = 500 * time.Millisecond
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Multiplier < 1.0 {
		cfg.Multiplier = 2.0
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Schedule{cfg: cfg, current: cfg.Initial}
}

// Next returns the delay to wait before the next reconnect attempt and
// advances the schedule.
func (s *Schedule) Next() time.Duration {
	d := s.current
	s.retries++

	next := time.Duration(float64(s.current) * s.cfg.Multiplier)
	if next > s.cfg.Max {
		next = s.cfg.Max
	}
	s.current = next

	if s.cfg.Jitter > 0 {
		delta := s.cfg.Jitter * float64(d)
		d = time.Duration(float64(d) + (s.cfg.Rand.Float64()*2-1)*delta)
	}
	return d
}

// Reset returns the schedule to its initial delay. Called once a
// connection has stayed healthy past ResetAfter.
func (s *Schedule) Reset() {
	s.current = s.cfg.Initial
	s.retries = 0
}

// Exhausted reports whether the retry budget is spent. Always false with
// the default unlimited config.
func (s *Schedule) Exhausted() bool {
	return s.cfg.MaxRetries > 0 && s.retries >= s.cfg.MaxRetries
}

// ResetAfter exposes the healthy-run threshold for the caller.
func (s *Schedule) ResetAfter() time.Duration {
	return s.cfg.ResetAfter
}
