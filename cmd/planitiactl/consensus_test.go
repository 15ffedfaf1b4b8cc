package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// installFakeTools puts samtools and bcftools scripts first on PATH. The
// fake bcftools fails for sample "bad" and yields no sequence for "empty".
func installFakeTools(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	bin := t.TempDir()
	samtools := "#!/bin/sh\nprintf '>chrI:1-10\\nAACCGGTTAA\\n'\n"
	bcftools := `#!/bin/sh
if [ "$1" = "query" ]; then
  printf 'good\nbad\nempty\n'
  exit 0
fi
if [ "$3" = "bad" ]; then
  echo "sample not found" >&2
  exit 1
fi
if [ "$3" = "empty" ]; then
  cat >/dev/null
  printf '>chrI:1-10\n'
  exit 0
fi
cat
`
	for name, body := range map[string]string{"samtools": samtools, "bcftools": bcftools} {
		require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte(body), 0o755))
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestConsensusWritesRowsPerEnvironmentAndSkips(t *testing.T) {
	installFakeTools(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "consensus.csv")
	skipped := filepath.Join(dir, "skipped.csv")
	args := []string{
		"consensus",
		"--ref", "ref.fa",
		"--vcf", "calls.vcf.gz",
		"--gene", "TDH3",
		"--chrom", "chrI",
		"--start", "1",
		"--end", "10",
		"--strand", "-",
		"--window", "6",
		"--out", out,
		"--skipped-out", skipped,
	}
	require.NoError(t, run(context.Background(), args))

	require.Equal(t, [][]string{
		{"good", "TDH3", "YPD", "TTAACC"},
		{"good", "TDH3", "SD", "TTAACC"},
	}, readTable(t, out).Rows)

	skips := readTable(t, skipped)
	require.Len(t, skips.Rows, 2)
	require.Equal(t, []string{"bad", "tool_failed"}, skips.Rows[0][:2])
	require.Equal(t, []string{"empty", "empty_consensus"}, skips.Rows[1][:2])
}

func TestConsensusReadsLocusFromConfig(t *testing.T) {
	installFakeTools(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "consensus.csv")
	path := writeConfig(t, map[string]any{
		"reference":    "ref.fa",
		"vcf":          "calls.vcf.gz",
		"environments": []any{"YPD"},
		"locus":        map[string]any{"gene": "PGK1", "chrom": "chrI", "start": 1, "end": 10, "strand": "+"},
	})
	require.NoError(t, run(context.Background(), []string{"consensus", "--config", path, "--samples", "good", "--out", out}))
	require.Equal(t, [][]string{{"good", "PGK1", "YPD", "AACCGGTTAA"}}, readTable(t, out).Rows)
}

func TestConsensusRequiresInputs(t *testing.T) {
	require.Error(t, run(context.Background(), []string{"consensus", "--out", "x.csv"}))
}

func TestConsensusAbortsWhenRegionCannotBeFetched(t *testing.T) {
	installFakeTools(t)
	bin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bin, "samtools"), []byte("#!/bin/sh\necho '[fai_load] failed to open FASTA index' >&2\nexit 1\n"), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	dir := t.TempDir()
	out := filepath.Join(dir, "consensus.csv")
	skipped := filepath.Join(dir, "skipped.csv")
	err := run(context.Background(), []string{
		"consensus", "--ref", "missing.fa", "--vcf", "calls.vcf.gz",
		"--chrom", "chrI", "--start", "1", "--end", "10",
		"--out", out, "--skipped-out", skipped,
	})
	require.ErrorContains(t, err, "failed to open FASTA index")
	require.NoFileExists(t, out)
	require.NoFileExists(t, skipped)
}
