package compiler

import "github.com/arthur-debert/dustup/pkg/config"

// Strategy selects how a template is compiled
type Strategy int

const (
	// StrategyLibrary compiles in-process through a dust.Library
	StrategyLibrary Strategy = iota
	// StrategyCommand runs an external compiler executable
	StrategyCommand
)

// String returns the strategy name used in logs and output
func (s Strategy) String() string {
	switch s {
	case StrategyLibrary:
		return "library"
	case StrategyCommand:
		return "command"
	default:
		return "unknown"
	}
}

// StrategyFor selects the strategy from the advanced settings
func StrategyFor(advanced config.Advanced) Strategy {
	if advanced.UseCommand {
		return StrategyCommand
	}
	return StrategyLibrary
}
