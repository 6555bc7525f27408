// Package cache stores computed break solutions between runs.
//
// The [Cache] interface is a byte-oriented key/value store with optional
// expiry. Backends are interchangeable:
//
//   - [NullCache] disables caching
//   - [FileCache] keeps entries under a local directory (CLI default)
//   - [RedisCache] shares entries between server replicas
//   - [MongoCache] stores entries as documents with a TTL index
//
// [Open] selects a backend from a URL such as "file:///tmp/linebreak",
// "redis://localhost:6379/0" or "mongodb://localhost:27017/linebreak".
//
// Keys are produced by a [Keyer] from a content hash of the input and the
// options that influence the result, so that any change to either yields a
// new key.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized results.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the resources held by the backend.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Default time-to-live per entry type.
const (
	TTLParts = 7 * 24 * time.Hour
	TTLText  = 24 * time.Hour
	TTLGraph = 24 * time.Hour
)

// PartsKeyOpts holds the options that influence a break solution.
type PartsKeyOpts struct {
	Width          int     `json:"width"`
	FirstWidth     int     `json:"first_width,omitempty"`
	Widths         []int   `json:"widths,omitempty"`
	Alignment      string  `json:"alignment"`
	AlignmentLast  string  `json:"alignment_last"`
	Threshold      float64 `json:"threshold"`
	RetryThreshold float64 `json:"retry_threshold"`
	Force          bool    `json:"force"`
	Recovery       bool    `json:"recovery"`
	MaxRecovery    int     `json:"max_recovery,omitempty"`
	FlaggedDemerit float64 `json:"flagged_demerit"`
	FitnessDemerit float64 `json:"fitness_demerit"`
	MaxFlagCount   int     `json:"max_flag_count,omitempty"`
	Looseness      int     `json:"looseness,omitempty"`
	BreakClass     string  `json:"break_class,omitempty"`
}

// TextKeyOpts adds the text measurement options to [PartsKeyOpts].
type TextKeyOpts struct {
	PartsKeyOpts
	UnitsPerCell  int  `json:"units_per_cell"`
	Hyphenate     bool `json:"hyphenate"`
	HyphenPenalty int  `json:"hyphen_penalty,omitempty"`
	Reflow        bool `json:"reflow,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// PartsKey returns the key of the parts computed for a sequence.
	PartsKey(seqHash string, opts PartsKeyOpts) string

	// TextKey returns the key of the parts computed for a text.
	TextKey(textHash string, opts TextKeyOpts) string

	// GraphKey returns the key of a rendered break graph.
	GraphKey(seqHash string, format string, opts PartsKeyOpts) string
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) PartsKey(seqHash string, opts PartsKeyOpts) string {
	return hashKey("parts", seqHash, opts)
}

func (DefaultKeyer) TextKey(textHash string, opts TextKeyOpts) string {
	return hashKey("text", textHash, opts)
}

func (DefaultKeyer) GraphKey(seqHash string, format string, opts PartsKeyOpts) string {
	return hashKey("graph", seqHash, format, opts)
}

var _ Keyer = DefaultKeyer{}
