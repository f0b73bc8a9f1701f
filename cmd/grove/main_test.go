package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pbanos/grove/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toysCSV = `color,shape,kind
red,circle,fruit
red,square,toy
green,circle,fruit
blue,square,toy
`

const toysYML = `features:
  color: [red, green, blue]
  shape: [circle, square]
`

func execute(args ...string) error {
	cmd := cliParser()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "toys.csv", toysCSV)
	metadata := writeFile(t, dir, "toys.yml", toysYML)
	treeFile := filepath.Join(dir, "tree.json")

	require.NoError(t, execute("grow", "-i", data, "-m", metadata, "-c", "kind", "-o", treeFile, "--smoothing", "0.5", "--workers", "2"))
	content, err := os.ReadFile(treeFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"labels":["fruit","toy"]`)

	textFile := filepath.Join(dir, "tree.txt")
	require.NoError(t, execute("tree", "-t", treeFile, "-m", metadata, "-o", textFile))
	content, err = os.ReadFile(textFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "* ? shape\n"), string(content))

	dotFile := filepath.Join(dir, "tree.dot")
	require.NoError(t, execute("tree", "-t", treeFile, "-f", "dot", "-o", dotFile))
	content, err = os.ReadFile(dotFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "shape?")

	require.NoError(t, execute("test", "-t", treeFile, "-m", metadata, "-i", data, "-c", "kind"))
	require.NoError(t, execute("predict", "-t", treeFile, "shape=circle", "color=?"))
	require.NoError(t, execute("features", "-i", data, "-c", "kind", "-n", "1"))

	assert.Error(t, execute("predict", "-t", treeFile, "shape"))
	assert.Error(t, execute("tree", "-t", treeFile, "-f", "gif"))
	assert.Error(t, execute("grow", "-i", data, "-c", "kind", "--prune", "minimum-information-gain"))
}

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "toys.csv", toysCSV)
	metadata := writeFile(t, dir, "toys.yml", toysYML)
	output := filepath.Join(dir, "train.csv")
	split := filepath.Join(dir, "test.csv")

	require.NoError(t, execute("split", "-i", data, "-m", metadata, "-c", "kind", "-o", output, "-s", split, "-p", "50", "--seed", "7"))
	var rows int
	for _, path := range []string{output, split} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		assert.Equal(t, "color,shape,kind", lines[0])
		rows += len(lines) - 1
	}
	assert.Equal(t, 4, rows)
}

func TestGrowFromSQLite(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "toys.db")
	db, err := sqlx.Open("sqlite3", dbFile)
	require.NoError(t, err)
	db.MustExec(`CREATE TABLE toys (color TEXT, shape TEXT, kind TEXT)`)
	for _, line := range strings.Split(strings.TrimSpace(toysCSV), "\n")[1:] {
		v := strings.Split(line, ",")
		db.MustExec(`INSERT INTO toys (color, shape, kind) VALUES (?, ?, ?)`, v[0], v[1], v[2])
	}
	require.NoError(t, db.Close())

	treeFile := filepath.Join(dir, "tree.json")
	require.NoError(t, execute("grow", "-i", dbFile, "--table", "toys", "-c", "kind", "-o", treeFile, "--max-depth", "1"))
	content, err := os.ReadFile(treeFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"f":"shape"`)
}

func TestNumericColumnsSurviveTreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "animals.db")
	db, err := sqlx.Open("sqlite3", dbFile)
	require.NoError(t, err)
	db.MustExec(`CREATE TABLE animals (legs INTEGER, kind TEXT)`)
	db.MustExec(`INSERT INTO animals (legs, kind) VALUES (2, 'bird'), (4, 'dog'), (4, 'dog')`)
	require.NoError(t, db.Close())

	treeFile := filepath.Join(dir, "tree.json")
	require.NoError(t, execute("grow", "-i", dbFile, "--table", "animals", "-c", "kind", "-o", treeFile))

	grown, err := loadTree(ctx, treeFile, nil)
	require.NoError(t, err)
	testingSet, err := openDataset(ctx, dbFile, "animals", "kind", nil, dataset.New)
	require.NoError(t, err)
	accuracy, err := grown.Test(ctx, testingSet)
	require.NoError(t, err)
	assert.Equal(t, 1.0, accuracy)
}
