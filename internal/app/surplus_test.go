package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodiq-go/internal/db"
)

func registerNGO(t *testing.T, a *App, email string) int64 {
	t.Helper()
	res, err := a.Register(context.Background(), RegisterInput{Email: email, Password: "pw", Role: RoleNGO, Name: email})
	require.NoError(t, err)
	return res.UserID
}

func TestBroadcastSurplus_PublishesCreated(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	events, cancel := a.SSE().Subscribe([]string{TopicSurplus()}, 4)
	defer cancel()

	id, err := a.BroadcastSurplus(ctx, BroadcastInput{ItemName: " Veg Biryani ", Category: "lunch", Quantity: "5kg", PickupWindow: "18:00-19:00"})
	require.NoError(t, err)

	ev := recv(t, events)
	assert.Equal(t, EventSurplusCreated, ev.Type)
	b, ok := ev.Data.(*db.SurplusBroadcast)
	require.True(t, ok)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, "Veg Biryani", b.ItemName)
	assert.Equal(t, db.StatusActive, b.Status)
	assert.Nil(t, b.ClaimedBy)

	list, err := a.ListActiveSurplus(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "5kg", list[0].Quantity)
}

func TestBroadcastSurplus_Validation(t *testing.T) {
	a := newTestApp(t)

	_, err := a.BroadcastSurplus(context.Background(), BroadcastInput{ItemName: "Rice", Quantity: "  "})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "category")
	assert.Contains(t, err.Error(), "quantity")
}

func TestClaimSurplus_OnlyOnce(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	first := registerNGO(t, a, "first@example.com")
	second := registerNGO(t, a, "second@example.com")

	id, err := a.BroadcastSurplus(ctx, BroadcastInput{ItemName: "Dal", Category: "lunch", Quantity: "3"})
	require.NoError(t, err)

	events, cancel := a.SSE().Subscribe([]string{TopicSurplus()}, 4)
	defer cancel()

	require.NoError(t, a.ClaimSurplus(ctx, id, first))
	ev := recv(t, events)
	assert.Equal(t, EventSurplusClaimed, ev.Type)

	err = a.ClaimSurplus(ctx, id, second)
	require.ErrorIs(t, err, ErrNotAvailable)
	assert.Equal(t, "Broadcast not available", err.Error())

	b, err := a.Store().Q.GetBroadcast(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, b.ClaimedBy)
	assert.Equal(t, first, *b.ClaimedBy)
	assert.Equal(t, db.StatusClaimed, b.Status)

	list, err := a.ListActiveSurplus(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, a.ClaimSurplus(ctx, 9999, first), ErrNotAvailable)
}

func TestClaimSurplus_ConcurrentSingleWinner(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	id, err := a.BroadcastSurplus(ctx, BroadcastInput{ItemName: "Idli", Category: "breakfast", Quantity: "40"})
	require.NoError(t, err)

	claimants := []int64{
		registerNGO(t, a, "a@example.com"),
		registerNGO(t, a, "b@example.com"),
		registerNGO(t, a, "c@example.com"),
		registerNGO(t, a, "d@example.com"),
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, uid := range claimants {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			err := a.ClaimSurplus(ctx, id, uid)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrNotAvailable)
		}(uid)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestClaimSurplus_ConfirmsToClaimant(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	claimant := registerNGO(t, a, "claimer@example.com")
	other := registerNGO(t, a, "other@example.com")

	id, err := a.BroadcastSurplus(ctx, BroadcastInput{ItemName: "Pav Bhaji", Category: "dinner", Quantity: "10", PickupWindow: "21:00-22:00"})
	require.NoError(t, err)

	mine, cancelMine := a.SSE().Subscribe([]string{TopicUser(claimant)}, 4)
	defer cancelMine()
	theirs, cancelTheirs := a.SSE().Subscribe([]string{TopicUser(other)}, 4)
	defer cancelTheirs()

	require.NoError(t, a.ClaimSurplus(ctx, id, claimant))

	ev := recv(t, mine)
	assert.Equal(t, EventClaimConfirmed, ev.Type)
	b, ok := ev.Data.(*db.SurplusBroadcast)
	require.True(t, ok)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, "21:00-22:00", b.PickupWindow)
	require.NotNil(t, b.ClaimedBy)
	assert.Equal(t, claimant, *b.ClaimedBy)
	assert.Empty(t, theirs)
}
