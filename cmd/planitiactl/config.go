package main

import (
	"encoding/json"
	"fmt"
	"os"

	"planitia/internal/consensus"
)

// runConfig is the union of settings the generate, flatness and consensus
// commands accept from a JSON --config file.
type runConfig struct {
	Count       int
	Length      int
	MinDistance int
	Seed        int64

	In          string
	Out         string
	GroupCol    string
	SequenceCol string
	FitnessCol  string
	CurvePath   string
	CurveXCol   string
	CurveYCol   string
	SourceSetID string

	Reference    string
	VCF          string
	Locus        consensus.Locus
	Environments []string
	SkippedOut   string

	// present holds the flag names whose values came from the config file.
	present map[string]bool
}

func loadRunConfig(path string) (runConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return runConfig{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return runConfig{}, err
	}

	cfg := runConfig{present: map[string]bool{}}
	if v, ok := asInt(raw["count"]); ok {
		cfg.Count = v
		cfg.present["count"] = true
	}
	if v, ok := asInt(raw["length"]); ok {
		cfg.Length = v
		cfg.present["length"] = true
	}
	if v, ok := asInt(raw["min_distance"]); ok {
		cfg.MinDistance = v
		cfg.present["min-distance"] = true
	}
	if v, ok := asInt64(raw["seed"]); ok {
		cfg.Seed = v
		cfg.present["seed"] = true
	}
	if v, ok := asString(raw["in"]); ok {
		cfg.In = v
		cfg.present["in"] = true
	}
	if v, ok := asString(raw["out"]); ok {
		cfg.Out = v
		cfg.present["out"] = true
	}
	if v, ok := asString(raw["group_col"]); ok {
		cfg.GroupCol = v
		cfg.present["group-col"] = true
	}
	if v, ok := asString(raw["sequence_col"]); ok {
		cfg.SequenceCol = v
		cfg.present["sequence-col"] = true
	}
	if v, ok := asString(raw["fitness_col"]); ok {
		cfg.FitnessCol = v
		cfg.present["fitness-col"] = true
	}
	if v, ok := asString(raw["curve"]); ok {
		cfg.CurvePath = v
		cfg.present["curve"] = true
	}
	if v, ok := asString(raw["curve_x_col"]); ok {
		cfg.CurveXCol = v
		cfg.present["curve-x-col"] = true
	}
	if v, ok := asString(raw["curve_y_col"]); ok {
		cfg.CurveYCol = v
		cfg.present["curve-y-col"] = true
	}
	if v, ok := asString(raw["source_set_id"]); ok {
		cfg.SourceSetID = v
		cfg.present["source-set-id"] = true
	}
	if v, ok := asString(raw["reference"]); ok {
		cfg.Reference = v
		cfg.present["ref"] = true
	}
	if v, ok := asString(raw["vcf"]); ok {
		cfg.VCF = v
		cfg.present["vcf"] = true
	}
	if v, ok := asString(raw["skipped_out"]); ok {
		cfg.SkippedOut = v
		cfg.present["skipped-out"] = true
	}
	if v, ok := asStrings(raw["environments"]); ok {
		cfg.Environments = v
		cfg.present["env"] = true
	}

	if locusMap, ok := raw["locus"].(map[string]any); ok {
		if v, ok := asString(locusMap["gene"]); ok {
			cfg.Locus.Gene = v
			cfg.present["gene"] = true
		}
		if v, ok := asString(locusMap["chrom"]); ok {
			cfg.Locus.Chrom = v
			cfg.present["chrom"] = true
		}
		if v, ok := asInt(locusMap["start"]); ok {
			cfg.Locus.Start = v
			cfg.present["start"] = true
		}
		if v, ok := asInt(locusMap["end"]); ok {
			cfg.Locus.End = v
			cfg.present["end"] = true
		}
		if v, ok := asString(locusMap["strand"]); ok {
			cfg.Locus.Strand = consensus.Strand(v)
			cfg.present["strand"] = true
		}
		if v, ok := asInt(locusMap["window"]); ok {
			cfg.Locus.Window = v
			cfg.present["window"] = true
		}
	}
	return cfg, nil
}

// overrideFromFlags applies the named flags on top of a loaded config.
func overrideFromFlags(cfg *runConfig, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "count":
			cfg.Count = v.(int)
		case "length":
			cfg.Length = v.(int)
		case "min-distance":
			cfg.MinDistance = v.(int)
		case "seed":
			cfg.Seed = v.(int64)
		case "in":
			cfg.In = v.(string)
		case "out":
			cfg.Out = v.(string)
		case "group-col":
			cfg.GroupCol = v.(string)
		case "sequence-col":
			cfg.SequenceCol = v.(string)
		case "fitness-col":
			cfg.FitnessCol = v.(string)
		case "curve":
			cfg.CurvePath = v.(string)
		case "curve-x-col":
			cfg.CurveXCol = v.(string)
		case "curve-y-col":
			cfg.CurveYCol = v.(string)
		case "source-set-id":
			cfg.SourceSetID = v.(string)
		case "ref":
			cfg.Reference = v.(string)
		case "vcf":
			cfg.VCF = v.(string)
		case "skipped-out":
			cfg.SkippedOut = v.(string)
		case "env":
			cfg.Environments = splitList(v.(string))
		case "gene":
			cfg.Locus.Gene = v.(string)
		case "chrom":
			cfg.Locus.Chrom = v.(string)
		case "start":
			cfg.Locus.Start = v.(int)
		case "end":
			cfg.Locus.End = v.(int)
		case "strand":
			cfg.Locus.Strand = consensus.Strand(v.(string))
		case "window":
			cfg.Locus.Window = v.(int)
		}
	}
}

// resolveRunConfig builds the effective config. A flag wins when it was set
// explicitly or when the config file does not name its key; otherwise the
// config value stands, zero values included.
func resolveRunConfig(configPath string, set map[string]bool, flagValue map[string]any) (runConfig, error) {
	cfg := runConfig{present: map[string]bool{}}
	if configPath != "" {
		loaded, err := loadRunConfig(configPath)
		if err != nil {
			return runConfig{}, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	apply := make(map[string]bool, len(flagValue))
	for name := range flagValue {
		if set[name] || !cfg.present[name] {
			apply[name] = true
		}
	}
	overrideFromFlags(&cfg, apply, flagValue)
	return cfg, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asStrings(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}
