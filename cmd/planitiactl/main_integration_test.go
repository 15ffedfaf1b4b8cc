//go:build sqlite

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"planitia/internal/artifacts"
	api "planitia/pkg/planitia"
)

func TestGenerateThenExportWithSQLiteStore(t *testing.T) {
	workdir := t.TempDir()
	dbPath := filepath.Join(workdir, "planitia.db")
	ctx := context.Background()

	args := []string{"generate", "--store", "sqlite", "--db-path", dbPath, "--count", "4", "--length", "16", "--min-distance", "4", "--seed", "11"}
	require.NoError(t, run(ctx, args))
	require.NoError(t, run(ctx, []string{"runs", "--store", "sqlite", "--db-path", dbPath}))

	client, err := api.New(api.Options{StoreKind: "sqlite", DBPath: dbPath})
	require.NoError(t, err)
	sets, err := client.Runs(ctx, 1)
	_ = client.Close()
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Len(t, sets[0].Sequences, 4)
	setID := sets[0].ID

	neighbors := filepath.Join(workdir, "neighbors.csv")
	require.NoError(t, run(ctx, []string{"neighbors", "--store", "sqlite", "--db-path", dbPath, "--set-id", setID, "--out", neighbors}))
	require.Len(t, readTable(t, neighbors).Rows, 4*(1+16*3))

	outDir := filepath.Join(workdir, "exports")
	require.NoError(t, run(ctx, []string{"export", "--store", "sqlite", "--db-path", dbPath, "--set-id", setID, "--out", outDir}))
	for _, file := range []string{"set.json", "sequences.csv"} {
		require.FileExists(t, filepath.Join(outDir, setID, file))
	}
	entries, err := artifacts.ListIndex(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, setID, entries[0].ID)
	require.Equal(t, artifacts.KindSequenceSet, entries[0].Kind)
}

func TestDefaultStorePersistsAcrossCommands(t *testing.T) {
	workdir := t.TempDir()
	dbPath := filepath.Join(workdir, "runs.db")
	ctx := context.Background()

	require.NoError(t, run(ctx, []string{"generate", "--db-path", dbPath, "--count", "2", "--length", "10", "--min-distance", "3"}))
	in := writeFile(t, workdir, "fitness.csv", "group,fitness\n0,5\n0,3\n0,7\n")
	require.NoError(t, run(ctx, []string{"flatness", "--db-path", dbPath, "--in", in}))
	require.NoError(t, run(ctx, []string{"runs", "--db-path", dbPath}))

	client, err := api.New(api.Options{DBPath: dbPath})
	require.NoError(t, err)
	defer client.Close()
	sets, err := client.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Len(t, sets[0].Sequences, 2)
	require.Equal(t, int64(1), sets[0].Seed, "seed flag default")

	require.NoError(t, run(ctx, []string{"export", "--db-path", dbPath, "--set-id", sets[0].ID, "--out", filepath.Join(workdir, "exports")}))
}

func TestExportUnknownSetIsNotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "planitia.db")
	err := run(context.Background(), []string{"export", "--db-path", dbPath, "--set-id", "missing", "--out", t.TempDir()})
	require.ErrorIs(t, err, api.ErrNotFound)
}
