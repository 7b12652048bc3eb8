package documentloaders_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/splitframe/documentloaders"
)

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(first, []byte("one\ntwo"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("x,y"), 0o600))

	loader := documentloaders.NewFileLoader(first, second)
	loader.Headers = map[string]any{"batch": "b1"}

	docs, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "one\ntwo", docs[0].PageContent)
	assert.Equal(t, first, docs[0].Metadata["source"])
	assert.Equal(t, 7, docs[0].Metadata["size"])
	assert.Equal(t, "b1", docs[0].Metadata["batch"])
	assert.Equal(t, "x,y", docs[1].PageContent)
}

func TestFileLoader_Errors(t *testing.T) {
	_, err := documentloaders.NewFileLoader().Load(context.Background())
	assert.Error(t, err)

	_, err = documentloaders.NewFileLoader(filepath.Join(t.TempDir(), "missing.txt")).Load(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = documentloaders.NewFileLoader("whatever").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCLICommandLoader(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	loader := documentloaders.NewCLICommandLoader("echo", "a,b")
	loader.Headers = map[string]any{"kind": "csv"}

	docs, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, "a,b\n", docs[0].PageContent)
	assert.Equal(t, "echo", docs[0].Metadata["command"])
	assert.Equal(t, "csv", docs[0].Metadata["kind"])
	assert.Contains(t, docs[0].Metadata["source"], "echo")
}

func TestCLICommandLoader_EmptyCommand(t *testing.T) {
	_, err := documentloaders.NewCLICommandLoader("").Load(context.Background())
	assert.Error(t, err)
}
