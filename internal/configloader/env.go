package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/mdstream/pkg/config"
)

// envVarPrefix is the prefix for all mdstream environment variables.
const envVarPrefix = "MDSTREAM_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":            {field: "flavor", typ: envTypeString},
	"EXTENSIONS":        {field: "extensions", typ: envTypeSlice},
	"XHTML":             {field: "xhtml", typ: envTypeBool},
	"VERBATIM_ENTITIES": {field: "verbatim_entities", typ: envTypeBool},
	"SKIP_BOM":          {field: "skip_bom", typ: envTypeBool},
	"DETECT_LANGUAGE":   {field: "detect_language", typ: envTypeBool},
	"OUTPUT":            {field: "output", typ: envTypeString},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDSTREAM_ (e.g., MDSTREAM_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeSlice:
		parts := parseSliceValue(value)
		return setSliceField(cfg, mapping.field, parts)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "output":
		cfg.Output = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "xhtml":
		cfg.XHTML = value
	case "verbatim_entities":
		cfg.VerbatimEntities = value
	case "skip_bom":
		cfg.SkipBOM = value
	case "detect_language":
		cfg.DetectLanguage = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns a list of all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"MDSTREAM_FLAVOR":            "Markdown flavor: commonmark or gfm",
		"MDSTREAM_EXTENSIONS":        "Comma-separated list of dialect extensions",
		"MDSTREAM_XHTML":             "Render XHTML-style void elements: true or false",
		"MDSTREAM_VERBATIM_ENTITIES": "Copy entities through undecoded: true or false",
		"MDSTREAM_SKIP_BOM":          "Ignore a leading UTF-8 BOM: true or false",
		"MDSTREAM_DETECT_LANGUAGE":   "Detect code block languages: true or false",
		"MDSTREAM_OUTPUT":            "Output file path (empty = stdout)",
	}
}
