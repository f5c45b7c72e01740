package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sealed-auction", cmd.Use)
	assert.Contains(t, cmd.Long, "sealed")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, cmdName := range []string{"serve", "migrate", "sweep"} {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	storeFlag := cmd.PersistentFlags().Lookup("store")
	require.NotNil(t, storeFlag)
	assert.Equal(t, "", storeFlag.DefValue)

	portFlag := cmd.PersistentFlags().Lookup("port")
	require.NotNil(t, portFlag)
	assert.Equal(t, "0", portFlag.DefValue)
}

func TestMigrate(t *testing.T) {
	t.Setenv("AUCTION_SQLITE_PATH", filepath.Join(t.TempDir(), "auction.db"))

	out, err := execute(t, "migrate", "--store", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite store schema is up to date")

	// idempotent
	_, err = execute(t, "migrate", "--store", "sqlite")
	require.NoError(t, err)

	out, err = execute(t, "migrate", "--store", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to migrate")
}

func TestSweep(t *testing.T) {
	t.Setenv("AUCTION_SQLITE_PATH", filepath.Join(t.TempDir(), "auction.db"))

	out, err := execute(t, "sweep", "--store", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, "scanned=0 finalized=0 skipped=0 failed=0")
}

func TestInvalidConfiguration(t *testing.T) {
	_, err := execute(t, "sweep", "--store", "redis")
	require.ErrorContains(t, err, "AUCTION_STORE")

	_, err = execute(t, "serve", "--port", "70000")
	require.ErrorContains(t, err, "PORT")

	t.Setenv("AUCTION_SWEEP_WORKERS", "0")
	_, err = execute(t, "migrate")
	require.ErrorContains(t, err, "AUCTION_SWEEP_WORKERS")
}

func TestOpenStore_Memory(t *testing.T) {
	opts := &RootOptions{}
	require.NoError(t, opts.resolve(NewRootCommand()))

	repo, closeStore, err := openStore(opts.Config)
	require.NoError(t, err)
	require.NotNil(t, repo)
	require.NoError(t, closeStore())
}
