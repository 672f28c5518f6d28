package main

import (
	"bytes"
	"context"
	"encoding/json"
	"gymnotes/training-tracker/internal/domain"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "hash-password", []string{"s3cret"}, &out))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	assert.Error(t, run(context.Background(), "hash-password", nil, &out))
}

func TestImportListExport(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_DIR", filepath.Join(dir, "data"))
	ctx := context.Background()

	plan := filepath.Join(dir, "plan.csv")
	require.NoError(t, os.WriteFile(plan, []byte("Modelo;\nTreino A;\n1) Supino;4X12\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(ctx, "import", []string{plan}, &out))
	assert.Contains(t, out.String(), "1 created, 0 skipped, 0 failed")

	out.Reset()
	require.NoError(t, run(ctx, "list", nil, &out))
	assert.Contains(t, out.String(), "Treino A")
	assert.Contains(t, out.String(), "Supino (4X12)")

	target := filepath.Join(dir, "out.json")
	out.Reset()
	require.NoError(t, run(ctx, "export", []string{"-format", "json", "-o", target}, &out))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var trainings []domain.Training
	require.NoError(t, json.Unmarshal(data, &trainings))
	require.Len(t, trainings, 1)
	assert.Equal(t, "Supino", trainings[0].Exercises[0].Name)
}

func TestUnknownCommand(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")

	err := run(context.Background(), "frobnicate", nil, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown command")
}

func TestPublishWithoutObjectStorage(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")

	err := run(context.Background(), "publish", nil, &bytes.Buffer{})
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
