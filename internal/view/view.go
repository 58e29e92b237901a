package view

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/mingj7235/fc-strategy-sub001/internal/page"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// FailureMessage is the user-facing text for any failed page load. Root
// causes are logged, not surfaced.
const FailureMessage = "데이터를 불러올 수 없습니다"

// Snapshot is one settled observation of a view.
type Snapshot struct {
	Status       Status
	Data         map[string]json.RawMessage
	ErrorMessage string
	RefreshedAt  time.Time
}

// View is the load state of one dashboard page. Ready and Failed are both
// re-enterable; every Refresh starts a new cycle. A cycle commits its
// outcome only while it is still the newest one, so a slow earlier refresh
// can never overwrite the state a later refresh produced.
type View struct {
	mu          sync.Mutex
	gen         uint64
	status      Status
	data        map[string]json.RawMessage
	errMsg      string
	refreshedAt time.Time
	now         func() time.Time
}

func New() *View {
	return NewWithClock(time.Now)
}

// NewWithClock fixes the clock used for RefreshedAt stamps.
func NewWithClock(now func() time.Time) *View {
	return &View{status: StatusIdle, now: now}
}

// Refresh runs the request set and returns this cycle's outcome. The
// shared view state is updated only if no newer cycle started meanwhile.
func (v *View) Refresh(ctx context.Context, set *page.RequestSet) Snapshot {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.status = StatusLoading
	v.mu.Unlock()

	data, err := set.Run(ctx)

	snap := Snapshot{RefreshedAt: v.now()}
	if err != nil {
		log.WithError(err).Errorf("page refresh failed")
		snap.Status = StatusFailed
		snap.ErrorMessage = FailureMessage
	} else {
		snap.Status = StatusReady
		snap.Data = data
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen == v.gen {
		v.status = snap.Status
		v.data = snap.Data
		v.errMsg = snap.ErrorMessage
		v.refreshedAt = snap.RefreshedAt
	}
	return snap
}

// Snapshot returns the current committed state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		Status:       v.status,
		Data:         v.data,
		ErrorMessage: v.errMsg,
		RefreshedAt:  v.refreshedAt,
	}
}
