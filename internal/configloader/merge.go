package configloader

import "github.com/yaklabco/mdstream/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans: a true in override always wins; false cannot unset a
//     lower-precedence true (a limitation of plain bool fields)
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a shallow copy of base
	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Output != "" {
		result.Output = override.Output
	}

	if override.XHTML {
		result.XHTML = true
	}
	if override.VerbatimEntities {
		result.VerbatimEntities = true
	}
	if override.SkipBOM {
		result.SkipBOM = true
	}
	if override.DetectLanguage {
		result.DetectLanguage = true
	}
	if override.Debug {
		result.Debug = true
	}

	// Slices: override replaces base entirely if non-nil
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
