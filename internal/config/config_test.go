package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIni(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOSTNAME", "node-1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 2, cfg.WaitingRoomCapacity)
	assert.Equal(t, 5*time.Second, cfg.MatchmakingInterval)
	assert.Equal(t, int64(17), cfg.BattleSeed)
	assert.Equal(t, 128, cfg.SessionHistory)
	assert.Zero(t, cfg.ReadyTimeout)
	assert.Empty(t, cfg.NATSURL)
	assert.Equal(t, "quizduel", cfg.NATSSubjectPrefix)
	assert.Equal(t, "node-1", cfg.AdvertisedHostname)
}

func TestEnvOverridesIni(t *testing.T) {
	path := writeIni(t, "[server]\nbattle_seed = 99\nwaiting_room_capacity = 4\n")
	t.Setenv("BATTLE_SEED", "5")
	// Limpa depois do teste o que exportIni colocar no ambiente.
	t.Setenv("WAITING_ROOM_CAPACITY", "")
	os.Unsetenv("WAITING_ROOM_CAPACITY")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(5), cfg.BattleSeed)
	assert.Equal(t, 4, cfg.WaitingRoomCapacity)
}

func TestRejectsSmallCapacity(t *testing.T) {
	t.Setenv("WAITING_ROOM_CAPACITY", "1")

	_, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WAITING_ROOM_CAPACITY")
}

func TestRejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}
