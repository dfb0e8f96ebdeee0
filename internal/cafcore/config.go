package cafcore

import "github.com/pkg/errors"

// TreeBuildingMethod is one of the two polymorphic tree-construction
// strategies (spec.md §4.3 step 3; §9 "model the three polymorphic
// configuration axes... as tagged variants with exhaustive match").
type TreeBuildingMethod int

const (
	NeighborJoining TreeBuildingMethod = iota
	GuidedNeighborJoining
)

func (m TreeBuildingMethod) String() string {
	switch m {
	case NeighborJoining:
		return "neighborJoining"
	case GuidedNeighborJoining:
		return "guidedNeighborJoining"
	default:
		return "unknown"
	}
}

// Set implements pflag.Value so TreeBuildingMethod can be bound directly to
// a --tree-building-method flag.
func (m *TreeBuildingMethod) Set(s string) error {
	switch s {
	case "neighborJoining":
		*m = NeighborJoining
	case "guidedNeighborJoining":
		*m = GuidedNeighborJoining
	default:
		return errors.Errorf("unknown tree building method %q", s)
	}
	return nil
}

// Type implements pflag.Value.
func (m TreeBuildingMethod) Type() string { return "treeBuildingMethod" }

// RootingMethod is the rooting strategy applied after tree construction.
type RootingMethod int

const (
	OutgroupBranch RootingMethod = iota
	LongestBranch
	BestRecon
)

func (m RootingMethod) String() string {
	switch m {
	case OutgroupBranch:
		return "outgroupBranch"
	case LongestBranch:
		return "longestBranch"
	case BestRecon:
		return "bestRecon"
	default:
		return "unknown"
	}
}

// Set implements pflag.Value so RootingMethod can be bound directly to a
// --rooting-method flag.
func (m *RootingMethod) Set(s string) error {
	switch s {
	case "outgroupBranch":
		*m = OutgroupBranch
	case "longestBranch":
		*m = LongestBranch
	case "bestRecon":
		*m = BestRecon
	default:
		return errors.Errorf("unknown rooting method %q", s)
	}
	return nil
}

// Type implements pflag.Value.
func (m RootingMethod) Type() string { return "rootingMethod" }

// ScoringMethod selects how a candidate tree is scored (spec.md §4.4).
type ScoringMethod int

const (
	ReconCost ScoringMethod = iota
	NucleotideLikelihood
	ReconLikelihood
	CombinedLikelihood
)

func (m ScoringMethod) String() string {
	switch m {
	case ReconCost:
		return "reconCost"
	case NucleotideLikelihood:
		return "nucleotideLikelihood"
	case ReconLikelihood:
		return "reconLikelihood"
	case CombinedLikelihood:
		return "combinedLikelihood"
	default:
		return "unknown"
	}
}

// Set implements pflag.Value so ScoringMethod can be bound directly to a
// --scoring-method flag.
func (m *ScoringMethod) Set(s string) error {
	switch s {
	case "reconCost":
		*m = ReconCost
	case "nucleotideLikelihood":
		*m = NucleotideLikelihood
	case "reconLikelihood":
		*m = ReconLikelihood
	case "combinedLikelihood":
		*m = CombinedLikelihood
	default:
		return errors.Errorf("unknown scoring method %q", s)
	}
	return nil
}

// Type implements pflag.Value.
func (m ScoringMethod) Type() string { return "scoringMethod" }

// Config holds every tunable named in spec.md §6's configuration table,
// tagged for pflag binding by the cmd/ CLI layer (see SPEC_FULL.md, Ambient
// Stack / Configuration).
type Config struct {
	MaxBaseDistance  int64 `pflag:"max-base-distance"`
	MaxBlockDistance int64 `pflag:"max-block-distance"`

	NumTrees int `pflag:"num-trees"`

	TreeBuildingMethod TreeBuildingMethod `pflag:"tree-building-method"`
	RootingMethod      RootingMethod      `pflag:"rooting-method"`
	ScoringMethod      ScoringMethod      `pflag:"scoring-method"`

	BreakPointScalingFactor float64 `pflag:"breakpoint-scaling-factor"`

	SkipSingleCopyBlocks    bool `pflag:"skip-single-copy-blocks"`
	AllowSingleDegreeBlocks bool `pflag:"allow-single-degree-blocks"`

	CostPerDupPerBase  float64 `pflag:"cost-per-dup-per-base"`
	CostPerLossPerBase float64 `pflag:"cost-per-loss-per-base"`

	IgnoreUnalignedBases bool `pflag:"ignore-unaligned-bases"`

	// FudgeFactor and FudgeFloor parameterize zero-branch-length
	// fudging (spec.md §4.3 step 4); not in spec.md's configuration
	// table but named there as defaults (0.02, 1e-4).
	FudgeFactor float64 `pflag:"fudge-factor"`
	FudgeFloor  float64 `pflag:"fudge-floor"`

	// ReconciliationDupRate is the hard-coded duplication-rate
	// parameter for RECON_LIKELIHOOD scoring (spec.md §9: "exposing it
	// is a straightforward follow-up" — exposed here as a config field
	// defaulting to 1.0 rather than a literal buried in the scorer).
	ReconciliationDupRate float64 `pflag:"reconciliation-dup-rate"`

	DebugFile string `pflag:"debug-file"`
}

// DefaultConfig returns the configuration the original C driver used:
// fudgeFactor=0.02, fudgeFloor=1e-4, dup-rate=1.0, and otherwise the
// spec.md defaults appropriate for a first refinement pass.
func DefaultConfig() *Config {
	return &Config{
		MaxBaseDistance:         1000,
		MaxBlockDistance:        10,
		NumTrees:                100,
		TreeBuildingMethod:      GuidedNeighborJoining,
		RootingMethod:           BestRecon,
		ScoringMethod:           ReconCost,
		BreakPointScalingFactor: 1.0,
		SkipSingleCopyBlocks:    false,
		AllowSingleDegreeBlocks: true,
		CostPerDupPerBase:       1.0,
		CostPerLossPerBase:      1.0,
		IgnoreUnalignedBases:    false,
		FudgeFactor:             0.02,
		FudgeFloor:              1e-4,
		ReconciliationDupRate:   1.0,
	}
}

// Validate checks the configuration-error conditions named in spec.md §7:
// incompatible rootingMethod x treeBuildingMethod, unknown scoring method.
func (c *Config) Validate() error {
	if c.TreeBuildingMethod == GuidedNeighborJoining && c.RootingMethod != BestRecon {
		return NewConfigError("guided neighbor-joining requires rootingMethod=bestRecon")
	}
	switch c.ScoringMethod {
	case ReconCost, NucleotideLikelihood, ReconLikelihood, CombinedLikelihood:
	default:
		return NewConfigError("unknown scoring method")
	}
	if c.NumTrees < 1 {
		return NewConfigError("numTrees must be >= 1")
	}
	return nil
}
