package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"planitia/internal/consensus"
)

func writeConfig(t *testing.T, payload map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run_config.json")
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadRunConfigReadsNestedLocus(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"count":        12,
		"length":       40,
		"min_distance": 9,
		"seed":         77,
		"reference":    "ref.fa",
		"vcf":          "calls.vcf.gz",
		"environments": []any{"YPD", "SD", "YPGal"},
		"locus": map[string]any{
			"gene":   "TDH3",
			"chrom":  "chrVII",
			"start":  882812,
			"end":    883611,
			"strand": "-",
			"window": 80,
		},
	})

	cfg, err := loadRunConfig(path)
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Count)
	require.Equal(t, 40, cfg.Length)
	require.Equal(t, 9, cfg.MinDistance)
	require.Equal(t, int64(77), cfg.Seed)
	require.Equal(t, "ref.fa", cfg.Reference)
	require.Equal(t, "calls.vcf.gz", cfg.VCF)
	require.Equal(t, consensus.Locus{Gene: "TDH3", Chrom: "chrVII", Start: 882812, End: 883611, Strand: consensus.Minus, Window: 80}, cfg.Locus)
	require.Equal(t, []string{"YPD", "SD", "YPGal"}, cfg.Environments)
	require.True(t, cfg.present["min-distance"])
	require.True(t, cfg.present["window"])
	require.False(t, cfg.present["out"])
}

func TestLoadRunConfigRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := loadRunConfig(path)
	require.Error(t, err)
}

func TestResolveRunConfigExplicitFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"count":        12,
		"length":       40,
		"min_distance": 9,
		"seed":         77,
	})
	flags := map[string]any{
		"count":        3,
		"length":       80,
		"min-distance": 30,
		"seed":         int64(5),
	}

	cfg, err := resolveRunConfig(path, map[string]bool{"seed": true}, flags)
	require.NoError(t, err)
	require.Equal(t, int64(5), cfg.Seed, "explicit seed wins")
	require.Equal(t, 12, cfg.Count)
	require.Equal(t, 40, cfg.Length)
	require.Equal(t, 9, cfg.MinDistance)
}

func TestResolveRunConfigFillsDefaultsMissingFromConfig(t *testing.T) {
	path := writeConfig(t, map[string]any{"in": "fitness.csv"})
	flags := map[string]any{
		"in":          "",
		"group-col":   "group",
		"fitness-col": "fitness",
		"curve-y-col": "fitness",
	}

	cfg, err := resolveRunConfig(path, map[string]bool{}, flags)
	require.NoError(t, err)
	require.Equal(t, "fitness.csv", cfg.In)
	require.Equal(t, "group", cfg.GroupCol)
	require.Equal(t, "fitness", cfg.FitnessCol)
	require.Equal(t, "fitness", cfg.CurveYCol)
}

func TestResolveRunConfigMissingSeedTakesFlagDefault(t *testing.T) {
	path := writeConfig(t, map[string]any{"count": 3})
	cfg, err := resolveRunConfig(path, map[string]bool{}, map[string]any{
		"count":        0,
		"length":       80,
		"min-distance": 30,
		"seed":         int64(1),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), cfg.Seed)
	require.Equal(t, 3, cfg.Count)
	require.Equal(t, 80, cfg.Length)
	require.Equal(t, 30, cfg.MinDistance)
}

func TestResolveRunConfigKeepsZeroValuesFromConfig(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"seed":  0,
		"locus": map[string]any{"chrom": "chrI", "start": 1, "end": 200, "window": 0},
	})
	cfg, err := resolveRunConfig(path, map[string]bool{}, map[string]any{
		"seed":   int64(1),
		"chrom":  "",
		"start":  0,
		"end":    0,
		"window": 80,
		"strand": "+",
	})
	require.NoError(t, err)
	require.Zero(t, cfg.Locus.Window, "window 0 in the config keeps the whole consensus")
	require.Zero(t, cfg.Seed)
	require.Equal(t, "chrI", cfg.Locus.Chrom)
	require.Equal(t, consensus.Plus, cfg.Locus.Strand)

	cfg, err = resolveRunConfig(path, map[string]bool{"window": true}, map[string]any{"window": 80})
	require.NoError(t, err)
	require.Equal(t, 80, cfg.Locus.Window, "explicit flag still wins over the config")
}

func TestResolveRunConfigWithoutFileUsesAllFlags(t *testing.T) {
	cfg, err := resolveRunConfig("", nil, map[string]any{
		"count":  4,
		"strand": "-",
		"env":    "YPD, SD",
	})
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Count)
	require.Equal(t, consensus.Minus, cfg.Locus.Strand)
	require.Equal(t, []string{"YPD", "SD"}, cfg.Environments)
}
