package service

import (
	"context"
	"errors"
	"testing"

	"Team_Orga/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainOnceDeliversPending(t *testing.T) {
	db := setupEnv(t)
	svc := NewRosterService()
	ctx := context.Background()

	seedTeam(t, db)
	a := seedPlayer(t, db, "anna")
	slot := seedDuty(t, db, model.GroupLocker, 3)

	_, err := svc.Join(ctx, model.GroupLocker, slot.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.Leave(ctx, model.GroupLocker, slot.ID, a.ID)
	require.NoError(t, err)

	var delivered []string
	relayer := NewOutboxRelayer(func(ctx context.Context, ev model.RosterOutbox) error {
		delivered = append(delivered, ev.EventType)
		return nil
	}, 0, 0)

	require.NoError(t, relayer.drainOnce(ctx))
	assert.Equal(t, []string{"joined", "left"}, delivered)

	var n int64
	require.NoError(t, db.Model(&model.RosterOutbox{}).Where("status = 0").Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, db.Model(&model.RosterOutbox{}).Where("status = 1").Count(&n).Error)
	assert.EqualValues(t, 2, n)

	// 已投递的不再重发
	require.NoError(t, relayer.drainOnce(ctx))
	assert.Len(t, delivered, 2)
}

func TestDrainOnceMarksFailure(t *testing.T) {
	db := setupEnv(t)
	svc := NewRosterService()
	ctx := context.Background()

	seedTeam(t, db)
	a := seedPlayer(t, db, "anna")
	slot := seedDuty(t, db, model.GroupWash, 1)

	_, err := svc.Join(ctx, model.GroupWash, slot.ID, a.ID)
	require.NoError(t, err)

	relayer := NewOutboxRelayer(func(ctx context.Context, ev model.RosterOutbox) error {
		return errors.New("broker down")
	}, 0, 0)
	require.NoError(t, relayer.drainOnce(ctx))

	var ev model.RosterOutbox
	require.NoError(t, db.First(&ev).Error)
	assert.EqualValues(t, 2, ev.Status)
	assert.Equal(t, 1, ev.Retry)
}
