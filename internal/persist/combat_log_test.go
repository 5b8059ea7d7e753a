package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/chopper/internal/config"
)

// Set CHOPPER_TEST_DSN to a disposable database to run these.
func testDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("CHOPPER_TEST_DSN")
	if dsn == "" {
		t.Skip("CHOPPER_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	version, err := RunMigrations(ctx, db.Pool, zap.NewNop())
	require.NoError(t, err)
	require.GreaterOrEqual(t, version, int64(1))
	return db
}

func TestCombatLogRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewCombatLogRepo(db, uuid.New())

	require.NoError(t, repo.StartSession(ctx, "chopper", "Level1.lua"))
	require.NoError(t, repo.WriteKills(ctx, []KillRecord{
		{Frame: 10, Victim: 3, VictimGroup: "enemies", Killer: 9, Damage: 10, At: time.Now()},
		{Frame: 12, Victim: 1, VictimTag: "player", Killer: 11, Damage: 40, At: time.Now()},
	}))
	require.NoError(t, repo.WriteKills(ctx, nil))
	require.NoError(t, repo.EndSession(ctx, 120))

	n, err := repo.CountKills(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWriteKillsUnknownSessionFails(t *testing.T) {
	db := testDB(t)
	repo := NewCombatLogRepo(db, uuid.New())

	err := repo.WriteKills(context.Background(), []KillRecord{{Frame: 1, At: time.Now()}})
	assert.Error(t, err)
}
