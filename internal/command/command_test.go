package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"yatube/internal/config"
	"yatube/internal/repository/memory"
	"yatube/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: memory
auth:
  accessSecret: access
  refreshSecret: refresh
`), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGroupCommands_RefuseMemoryDriver(t *testing.T) {
	cfg := memoryConfig(t)

	for _, args := range [][]string{
		{"group", "create", "--title", "Коты", "--slug", "cats"},
		{"group", "delete", "cats"},
		{"group", "list"},
		{"user", "delete", "nobody"},
	} {
		out, err := run(t, append([]string{"--config", cfg}, args...)...)
		assert.ErrorIs(t, err, errMemoryDriver, args)
		assert.NotContains(t, out, "created group", args)
	}
}

func TestSeedGroups(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := service.NewGroupService(store.Groups)
	seeds := []config.GroupSeed{
		{Title: "Коты", Slug: "cats", Description: "Всё о котах"},
		{Title: "Собаки", Slug: "dogs"},
	}

	require.NoError(t, seedGroups(ctx, svc, seeds))
	require.NoError(t, seedGroups(ctx, svc, seeds), "seeding twice keeps existing groups")

	groups, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	g, err := svc.Get(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "Всё о котах", g.Description)

	err = seedGroups(ctx, svc, []config.GroupSeed{{Title: "Плохая", Slug: "bad slug"}})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "group", "list")
	assert.Error(t, err)
}

func TestSetLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.WarnLevel)

	setLogging("DEBUG")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	setLogging("error")
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
	setLogging("nonsense")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
