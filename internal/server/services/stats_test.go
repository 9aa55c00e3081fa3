package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkazmin/bountyboard/internal/server/models"
)

func TestRecalculateMatchesIncrementalState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "alice@example.com")
	first := env.createProgram(t, "First")
	second := env.createProgram(t, "Second")

	a := env.submit(t, first.ID, user.ID, "a")
	b := env.submit(t, first.ID, user.ID, "b")
	env.submit(t, first.ID, user.ID, "c")
	d := env.submit(t, second.ID, user.ID, "d")

	_, err := env.lifecycle.Approve(ctx, adminID, a.ID, 120, "")
	require.NoError(t, err)
	_, err = env.lifecycle.RejectWithStrike(ctx, adminID, b.ID, "")
	require.NoError(t, err)
	_, err = env.lifecycle.RejectWithoutStrike(ctx, adminID, d.ID, "")
	require.NoError(t, err)

	before := map[int64]models.ProgramStats{
		first.ID:  env.programStats(t, first.ID),
		second.ID: env.programStats(t, second.ID),
	}

	updated, err := env.stats.Recalculate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	for id, want := range before {
		assert.Equal(t, want, env.programStats(t, id))
	}
}

func TestRecalculateRepairsDriftedCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "alice@example.com")
	program := env.createProgram(t, "Acme")

	a := env.submit(t, program.ID, user.ID, "a")
	env.submit(t, program.ID, user.ID, "b")
	_, err := env.lifecycle.Approve(ctx, adminID, a.ID, 300, "")
	require.NoError(t, err)

	// Corrupt the counters behind the engine's back.
	_, err = env.db.Exec(`UPDATE programs SET total_reports = 99, total_bounties_paid = 1.5 WHERE id = $1`, program.ID)
	require.NoError(t, err)

	_, err = env.stats.Recalculate(ctx)
	require.NoError(t, err)

	stats := env.programStats(t, program.ID)
	assert.Equal(t, int64(2), stats.TotalReports)
	assert.Equal(t, int64(1), stats.PendingReports)
	assert.Equal(t, int64(1), stats.ApprovedReports)
	assert.Equal(t, 300.0, stats.TotalBountiesPaid)
	requireStatsConsistent(t, stats)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, "alice@example.com")
	program := env.createProgram(t, "Acme")
	a := env.submit(t, program.ID, user.ID, "a")
	_, err := env.lifecycle.Approve(ctx, adminID, a.ID, 40, "")
	require.NoError(t, err)

	_, err = env.stats.Recalculate(ctx)
	require.NoError(t, err)
	once := env.programStats(t, program.ID)

	_, err = env.stats.Recalculate(ctx)
	require.NoError(t, err)
	assert.Equal(t, once, env.programStats(t, program.ID))
}

func TestRecalculateZeroesProgramsWithoutSubmissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	program := env.createProgram(t, "Empty")

	// Fake leftover counters from deleted submissions.
	_, err := env.db.Exec(`UPDATE programs SET total_reports = 5, pending_reports = 5 WHERE id = $1`, program.ID)
	require.NoError(t, err)

	updated, err := env.stats.Recalculate(ctx)
	require.NoError(t, err)
	assert.Zero(t, updated)

	stats := env.programStats(t, program.ID)
	assert.Zero(t, stats.TotalReports)
	assert.Zero(t, stats.PendingReports)
}
