package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "gopass/pkg/domain"
)

func record(outcome Outcome, at time.Time) Record {
	passID := id.NewPassID()
	return Record{
		ID:         id.NewAuditRecordID(),
		PassID:     &passID,
		OperatorID: id.OperatorID(uuid.New()),
		Outcome:    outcome,
		Timestamp:  at,
		Location:   "Gate 12",
	}
}

func TestInMemoryStoreAppendAndList(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, record(OutcomeValid, base.Add(time.Duration(i)*time.Minute))))
	}

	t.Run("lists the most recent records oldest first", func(t *testing.T) {
		recent, err := store.ListRecent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, recent, 3)
		assert.True(t, recent[0].Timestamp.Before(recent[2].Timestamp))
		assert.True(t, recent[2].Timestamp.Equal(base.Add(4*time.Minute)))
	})

	t.Run("limit above size returns everything", func(t *testing.T) {
		recent, err := store.ListRecent(ctx, 100)
		require.NoError(t, err)
		assert.Len(t, recent, 5)
	})
}

func TestInMemoryStoreCountSince(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, record(OutcomeValid, base.Add(-time.Hour))))
	require.NoError(t, store.Append(ctx, record(OutcomeInvalid, base)))
	require.NoError(t, store.Append(ctx, record(OutcomeAlreadyScanned, base.Add(time.Hour))))

	count, err := store.CountSince(ctx, base)
	require.NoError(t, err)
	// The boundary record counts.
	assert.Equal(t, 2, count)
}

func TestInMemoryStoreNilPassID(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	rec := record(OutcomeInvalid, time.Now().UTC())
	rec.PassID = nil
	require.NoError(t, store.Append(ctx, rec))

	all := store.All()
	require.Len(t, all, 1)
	assert.Nil(t, all[0].PassID)
}
