package knuth

import (
	"fmt"
	"math"
	"strings"
)

// Alignment selects how free space on a line is distributed. It changes how
// [Part] ratios and differences are reported and whether centred content
// keeps its leading fillers.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
	AlignJustify
)

var alignmentNames = map[Alignment]string{
	AlignStart:   "start",
	AlignCenter:  "center",
	AlignEnd:     "end",
	AlignJustify: "justify",
}

func (a Alignment) String() string {
	if s, ok := alignmentNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment converts a name such as "justify" into an Alignment. The
// aliases "left" and "right" map to start and end.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "left", "":
		return AlignStart, nil
	case "center", "centre":
		return AlignCenter, nil
	case "end", "right":
		return AlignEnd, nil
	case "justify", "justified":
		return AlignJustify, nil
	}
	return AlignStart, fmt.Errorf("unknown alignment %q", s)
}

func (a Alignment) MarshalText() ([]byte, error) {
	if _, ok := alignmentNames[a]; !ok {
		return nil, fmt.Errorf("unknown alignment %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Alignment) UnmarshalText(text []byte) error {
	v, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// BreakClass restricts which legal breaks the algorithm may use.
type BreakClass int

const (
	// AllBreaks allows every legal break.
	AllBreaks BreakClass = iota
	// NoFlaggedPenalties ignores flagged penalties (no hyphenation).
	NoFlaggedPenalties
	// OnlyForcedBreaks only breaks at forced penalties and the end.
	OnlyForcedBreaks
)

func (c BreakClass) String() string {
	switch c {
	case AllBreaks:
		return "all"
	case NoFlaggedPenalties:
		return "no-flagged"
	case OnlyForcedBreaks:
		return "only-forced"
	default:
		return fmt.Sprintf("BreakClass(%d)", int(c))
	}
}

// ParseBreakClass converts "all", "no-flagged" or "only-forced" into a
// BreakClass. An empty name selects AllBreaks.
func ParseBreakClass(s string) (BreakClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return AllBreaks, nil
	case "no-flagged", "nohyphen", "no-hyphen":
		return NoFlaggedPenalties, nil
	case "only-forced", "forced":
		return OnlyForcedBreaks, nil
	}
	return AllBreaks, fmt.Errorf("unknown break class %q", s)
}

// Default tuning values.
const (
	DefaultThreshold                  = 1.0
	DefaultRetryThreshold             = 20.0
	DefaultRepeatedFlaggedDemerit     = 50.0
	DefaultIncompatibleFitnessDemerit = 50.0
	DefaultMaxRecoveryAttempts        = 5
)

// Config holds the tuning parameters for an [Algorithm].
type Config struct {
	// Alignment applies to every line but the last.
	Alignment Alignment

	// AlignmentLast applies to the last line.
	AlignmentLast Alignment

	// Threshold is the largest adjustment ratio accepted for a feasible line.
	Threshold float64

	// Force makes the algorithm always produce a solution, restarting from the
	// best infeasible candidate when no feasible break remains.
	Force bool

	// PartOverflowRecovery inserts empty parts in front of overflowing content
	// before accepting the overflow, which helps when later lines or pages are
	// wider. Only meaningful with Force.
	PartOverflowRecovery bool

	// MaxRecoveryAttempts bounds consecutive empty parts inserted by recovery.
	MaxRecoveryAttempts int

	// MaxFlagCount limits consecutive breaks at flagged penalties. Zero means
	// no limit.
	MaxFlagCount int

	// ConsiderTooShort lets too-short candidates compete as feasible breaks
	// when forcing.
	ConsiderTooShort bool

	// RepeatedFlaggedDemerit is added when two consecutive breaks are both
	// flagged penalties.
	RepeatedFlaggedDemerit float64

	// IncompatibleFitnessDemerit is added when adjacent lines differ by more
	// than one fitness class. It is also the dominance margin used to prune
	// new nodes.
	IncompatibleFitnessDemerit float64

	// Looseness asks for a solution with that many more (or fewer) lines than
	// the optimum, when one exists.
	Looseness int

	// Observer receives algorithm events. Nil means no observer.
	Observer Observer
}

// DefaultConfig returns a justified configuration with a ragged last line,
// forcing enabled, overflow recovery disabled and the customary demerit
// constants.
func DefaultConfig() Config {
	return Config{
		Alignment:                  AlignJustify,
		AlignmentLast:              AlignStart,
		Threshold:                  DefaultThreshold,
		Force:                      true,
		MaxRecoveryAttempts:        DefaultMaxRecoveryAttempts,
		RepeatedFlaggedDemerit:     DefaultRepeatedFlaggedDemerit,
		IncompatibleFitnessDemerit: DefaultIncompatibleFitnessDemerit,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if _, ok := alignmentNames[c.Alignment]; !ok {
		return configError("unknown alignment %d", int(c.Alignment))
	}
	if _, ok := alignmentNames[c.AlignmentLast]; !ok {
		return configError("unknown last-line alignment %d", int(c.AlignmentLast))
	}
	if math.IsNaN(c.Threshold) || c.Threshold <= 0 {
		return configError("threshold must be positive, got %v", c.Threshold)
	}
	if c.MaxRecoveryAttempts < 0 {
		return configError("max recovery attempts must not be negative")
	}
	if c.MaxFlagCount < 0 {
		return configError("max flag count must not be negative")
	}
	if c.RepeatedFlaggedDemerit < 0 || c.IncompatibleFitnessDemerit < 0 {
		return configError("demerit surcharges must not be negative")
	}
	return nil
}

func (c Config) observer() Observer {
	if c.Observer == nil {
		return NopObserver{}
	}
	return c.Observer
}
