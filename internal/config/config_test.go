package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"idlescape/internal/domain/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "DB_DSN", "MIGRATIONS_DIR", "CONTENT_DIR", "BALANCE_FILE", "TICK_INTERVAL", "RNG_SEED"} {
		t.Setenv("IDLESCAPE_"+k, "")
		require.NoError(t, os.Unsetenv("IDLESCAPE_"+k))
	}
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.False(t, cfg.UsesPostgres())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("IDLESCAPE_HTTP_ADDR", ":9090")
	t.Setenv("IDLESCAPE_DB_DSN", "postgres://localhost/idlescape")
	t.Setenv("IDLESCAPE_TICK_INTERVAL", "1s")
	t.Setenv("IDLESCAPE_RNG_SEED", "42")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, int64(42), cfg.RNGSeed)
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	t.Setenv("IDLESCAPE_TICK_INTERVAL", "soon")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("IDLESCAPE_TICK_INTERVAL", "0s")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestParseBalance_Tuning(t *testing.T) {
	b, err := ParseBalance([]byte("offline_max_elapsed: 6h\nslayer_cancel_cost: 50\ncombat_style: crush\n"))
	require.NoError(t, err)

	tuning := b.Tuning()
	assert.Equal(t, 6*time.Hour, tuning.OfflineMaxElapsed)
	assert.Equal(t, 50, tuning.SlayerCancelCost)
	assert.Equal(t, game.StyleCrush, tuning.CombatStyle)
	assert.Equal(t, game.DefaultAttackSpeed, tuning.DefaultAttackSpeed)
}

func TestParseBalance_Rejections(t *testing.T) {
	_, err := ParseBalance([]byte("combat_style: karate\n"))
	assert.Error(t, err)
	_, err = ParseBalance([]byte("slayer_cancel_cost: -1\n"))
	assert.Error(t, err)
	_, err = ParseBalance([]byte("offline_max_elapsed: [1"))
	assert.Error(t, err)
}

func TestLoadBalance(t *testing.T) {
	empty, err := LoadBalance("")
	require.NoError(t, err)
	assert.Equal(t, game.DefaultTuning(), empty.Tuning())

	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_attack_speed: 1800ms\n"), 0o644))
	b, err := LoadBalance(path)
	require.NoError(t, err)
	assert.Equal(t, 1800*time.Millisecond, b.Tuning().DefaultAttackSpeed)

	_, err = LoadBalance(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
