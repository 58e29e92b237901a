package view

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mingj7235/fc-strategy-sub001/internal/page"
)

func fixedSet(name, payload string) *page.RequestSet {
	set := &page.RequestSet{}
	set.Add(name, func(ctx context.Context) (json.RawMessage, error) {
		return json.RawMessage(payload), nil
	})
	return set
}

func failingSet() *page.RequestSet {
	set := &page.RequestSet{}
	set.Add("detail", func(ctx context.Context) (json.RawMessage, error) {
		return nil, errors.New("Failed to fetch")
	})
	return set
}

func TestRefreshReachesReady(t *testing.T) {
	v := New()
	assert.Equal(t, StatusIdle, v.Snapshot().Status)

	snap := v.Refresh(context.Background(), fixedSet("rankings", `{"total_players":22}`))
	assert.Equal(t, StatusReady, snap.Status)
	assert.JSONEq(t, `{"total_players":22}`, string(snap.Data["rankings"]))
	assert.Empty(t, snap.ErrorMessage)
	assert.Equal(t, StatusReady, v.Snapshot().Status)
}

func TestRefreshFailureSurfacesGenericMessage(t *testing.T) {
	v := New()

	snap := v.Refresh(context.Background(), failingSet())
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Nil(t, snap.Data)
	assert.Contains(t, snap.ErrorMessage, "불러올 수 없습니다")
}

func TestFailedIsReenterable(t *testing.T) {
	v := New()

	require.Equal(t, StatusFailed, v.Refresh(context.Background(), failingSet()).Status)

	snap := v.Refresh(context.Background(), fixedSet("detail", `{"id":"m1"}`))
	assert.Equal(t, StatusReady, snap.Status)
	assert.Equal(t, StatusReady, v.Snapshot().Status)
	assert.Empty(t, v.Snapshot().ErrorMessage)
}

func TestSupersededCycleDoesNotCommit(t *testing.T) {
	v := New()

	started := make(chan struct{})
	release := make(chan struct{})

	slowSet := &page.RequestSet{}
	slowSet.Add("rankings", func(ctx context.Context) (json.RawMessage, error) {
		close(started)
		<-release
		return json.RawMessage(`{"cycle":"A"}`), nil
	})

	done := make(chan Snapshot, 1)
	go func() {
		done <- v.Refresh(context.Background(), slowSet)
	}()
	<-started

	// cycle B starts while A is still in flight and settles first
	snapB := v.Refresh(context.Background(), fixedSet("rankings", `{"cycle":"B"}`))
	require.Equal(t, StatusReady, snapB.Status)

	// A settles afterwards; it reports its own outcome but must not
	// overwrite the state B committed
	close(release)
	snapA := <-done
	assert.Equal(t, StatusReady, snapA.Status)
	assert.JSONEq(t, `{"cycle":"A"}`, string(snapA.Data["rankings"]))

	final := v.Snapshot()
	assert.Equal(t, StatusReady, final.Status)
	assert.JSONEq(t, `{"cycle":"B"}`, string(final.Data["rankings"]))
}

func TestRefreshStampsInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	v := NewWithClock(func() time.Time { return fixed })

	snap := v.Refresh(context.Background(), fixedSet("detail", `{}`))
	assert.Equal(t, fixed, snap.RefreshedAt)
	assert.Equal(t, fixed, v.Snapshot().RefreshedAt)

	snap = v.Refresh(context.Background(), failingSet())
	assert.Equal(t, fixed, snap.RefreshedAt, "failed cycles stamp the clock too")
}

func TestRegistrySharesViewsByKey(t *testing.T) {
	r := NewRegistry()
	a := r.Get("rankings:abc:50:20")
	b := r.Get("rankings:abc:50:20")
	c := r.Get("rankings:abc:50:50")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
