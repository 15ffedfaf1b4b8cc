package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeKeepsUnmatchedStrainsAndSkipsTitleBlock(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "sequences.csv", "Strain,Sequence\n AAA ,ACGT\nBBB,TTTT\n")
	right := writeFile(t, dir, "metadata.csv", "Table S1\nisolates\nStandardized name,Origin_Type,Ploidy\nAAA,Wild,2\nCCC,Domesticated,4\n")
	out := filepath.Join(dir, "merged.csv")
	args := []string{"merge", "--left", left, "--right", right, "--header-marker", "Standardized name", "--cols", "Origin_Type", "--out", out}
	require.NoError(t, run(context.Background(), args))

	table := readTable(t, out)
	require.Equal(t, []string{"Strain", "Sequence", "Origin_Type"}, table.Header)
	require.Equal(t, [][]string{{"AAA", "ACGT", "Wild"}, {"BBB", "TTTT", ""}}, table.Rows)
}

func TestMergeHeaderMarkerMatchesInsideLine(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "sequences.csv", "Strain,Sequence\nAAA,ACGT\n")
	right := writeFile(t, dir, "metadata.csv", "Table S1\nClade,Standardized name,Origin_Type\n3,AAA,Wild\n")
	out := filepath.Join(dir, "merged.csv")
	args := []string{"merge", "--left", left, "--right", right, "--header-marker", "Standardized name", "--cols", "Clade", "--out", out}
	require.NoError(t, run(context.Background(), args))
	require.Equal(t, [][]string{{"AAA", "ACGT", "3"}}, readTable(t, out).Rows)
}

func TestMergeDefaultsToEveryRightColumn(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "sequences.csv", "Strain,Sequence\nAAA,ACGT\n")
	right := writeFile(t, dir, "metadata.csv", "Standardized name,Origin_Type,Ploidy\nAAA,Wild,2\n")
	out := filepath.Join(dir, "merged.csv")
	require.NoError(t, run(context.Background(), []string{"merge", "--left", left, "--right", right, "--out", out}))
	require.Equal(t, []string{"Strain", "Sequence", "Origin_Type", "Ploidy"}, readTable(t, out).Header)
}

func TestMergeRenamesCollidingRightColumn(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "sequences.csv", "Strain,Sequence\nAAA,ACGT\n")
	right := writeFile(t, dir, "metadata.csv", "Standardized name,Sequence\nAAA,TTTT\nAAA,GGGG\n")
	out := filepath.Join(dir, "merged.csv")
	require.NoError(t, run(context.Background(), []string{"merge", "--left", left, "--right", right, "--out", out}))

	table := readTable(t, out)
	require.Equal(t, []string{"Strain", "Sequence", "Sequence_right"}, table.Header)
	require.Equal(t, [][]string{{"AAA", "ACGT", "TTTT"}}, table.Rows)
}

func TestMergeReportsMissingKey(t *testing.T) {
	dir := t.TempDir()
	left := writeFile(t, dir, "sequences.csv", "Name,Sequence\nAAA,ACGT\n")
	right := writeFile(t, dir, "metadata.csv", "Standardized name,Origin_Type\nAAA,Wild\n")
	out := filepath.Join(dir, "merged.csv")
	err := run(context.Background(), []string{"merge", "--left", left, "--right", right, "--out", out})
	require.ErrorContains(t, err, "Strain")
}

func TestFilterResolvesRenamedColumn(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "merged.csv", "Strain,Ecological origins,Sequence\nAAA,Wild,ACGT\nBBB,Domesticated,TTTT\nCCC,Wild,GGGG\n")
	out := filepath.Join(dir, "wild.csv")
	args := []string{"filter", "--in", in, "--values", "Wild", "--count-col", "Strain", "--drop", "Ecological origins", "--out", out}
	require.NoError(t, run(context.Background(), args))

	table := readTable(t, out)
	require.Equal(t, []string{"Strain", "Sequence"}, table.Header)
	require.Equal(t, [][]string{{"AAA", "ACGT"}, {"CCC", "GGGG"}}, table.Rows)
}

func TestFilterWhereClauses(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "merged.csv", "Strain,Gene,Environment,Fitness\nAAA,TDH3,YPD,1.5\nAAA,TDH3,SD,0.5\nBBB,TDH3,YPD,2.5\n")
	out := filepath.Join(dir, "ypd.csv")
	args := []string{"filter", "--in", in, "--where", "Environment=YPD,Gene=TDH3", "--stats-col", "Fitness", "--out", out}
	require.NoError(t, run(context.Background(), args))
	table := readTable(t, out)
	require.Len(t, table.Rows, 2)
	require.Equal(t, "BBB", table.Rows[1][0])

	require.Error(t, run(context.Background(), []string{"filter", "--in", in, "--where", "Environment"}), "malformed where clause")
}
