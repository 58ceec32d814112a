package cart

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guardNow = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time {
	return guardNow
}

// stockedEngine returns an engine holding one item
func stockedEngine(t *testing.T) (*Engine, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	e := NewEngine(store)
	e.AddItem(testProduct(), 2, nil)
	require.False(t, e.IsEmpty())
	return e, store
}

func setLastAdded(t *testing.T, store *MemoryStore, at time.Time) {
	t.Helper()
	require.NoError(t, store.Set(LastItemAddedAtKey, strconv.FormatInt(at.UnixMilli(), 10)))
}

func TestStalenessGuard_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(t *testing.T, store *MemoryStore)
		expected GuardState
	}{
		{
			name:     "25 hours old is stale",
			prepare:  func(t *testing.T, s *MemoryStore) { setLastAdded(t, s, guardNow.Add(-25*time.Hour)) },
			expected: GuardShown,
		},
		{
			name:     "23 hours old is fresh",
			prepare:  func(t *testing.T, s *MemoryStore) { setLastAdded(t, s, guardNow.Add(-23*time.Hour)) },
			expected: GuardDismissed,
		},
		{
			name:     "exactly 24 hours is stale",
			prepare:  func(t *testing.T, s *MemoryStore) { setLastAdded(t, s, guardNow.Add(-24*time.Hour)) },
			expected: GuardShown,
		},
		{
			name:     "missing timestamp is stale",
			prepare:  func(t *testing.T, s *MemoryStore) { require.NoError(t, s.Remove(LastItemAddedAtKey)) },
			expected: GuardShown,
		},
		{
			name:     "unparsable timestamp is stale",
			prepare:  func(t *testing.T, s *MemoryStore) { require.NoError(t, s.Set(LastItemAddedAtKey, "yesterday")) },
			expected: GuardShown,
		},
		{
			name:     "timestamp in the future is fresh",
			prepare:  func(t *testing.T, s *MemoryStore) { setLastAdded(t, s, guardNow.Add(time.Hour)) },
			expected: GuardDismissed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := stockedEngine(t)
			tt.prepare(t, store)

			g := NewStalenessGuard(e, WithGuardClock(fixedNow))
			assert.Equal(t, GuardUnchecked, g.State())
			assert.Equal(t, tt.expected, g.Evaluate())
			assert.Equal(t, tt.expected, g.State())
		})
	}
}

func TestStalenessGuard_EmptyCartStaysUnchecked(t *testing.T) {
	store := NewMemoryStore()
	e := NewEngine(store)
	g := NewStalenessGuard(e, WithGuardClock(fixedNow))

	assert.Equal(t, GuardUnchecked, g.Evaluate())

	// once the cart fills up a later evaluation can still decide
	e.AddItem(testProduct(), 1, nil)
	setLastAdded(t, store, guardNow.Add(-30*time.Hour))
	assert.Equal(t, GuardShown, g.Evaluate())
}

func TestStalenessGuard_TimestampReadErrorStaysUnchecked(t *testing.T) {
	inner := NewMemoryStore()
	store := newFlakyStore(inner)
	e := NewEngine(store)
	e.AddItem(testProduct(), 1, nil)
	setLastAdded(t, inner, guardNow.Add(-time.Hour))

	var changes []GuardState
	store.failNextGets(LastItemAddedAtKey, 1)
	g := NewStalenessGuard(e,
		WithGuardClock(fixedNow),
		WithOnChange(func(s GuardState) { changes = append(changes, s) }),
	)

	assert.Equal(t, GuardUnchecked, g.Evaluate())
	assert.Equal(t, GuardUnchecked, g.State())
	assert.Empty(t, changes)

	// the read recovers and the fresh timestamp is honored
	assert.Equal(t, GuardDismissed, g.Evaluate())
	assert.Equal(t, []GuardState{GuardDismissed}, changes)
}

func TestStalenessGuard_MissingTimestampShows(t *testing.T) {
	e, store := stockedEngine(t)
	require.NoError(t, store.Remove(LastItemAddedAtKey))

	g := NewStalenessGuard(e, WithGuardClock(fixedNow))
	assert.Equal(t, GuardShown, g.Evaluate())
}

func TestStalenessGuard_DecidesOnlyOnce(t *testing.T) {
	e, store := stockedEngine(t)
	setLastAdded(t, store, guardNow.Add(-time.Hour))

	now := guardNow
	g := NewStalenessGuard(e, WithGuardClock(func() time.Time { return now }))
	require.Equal(t, GuardDismissed, g.Evaluate())

	now = now.Add(72 * time.Hour)
	assert.Equal(t, GuardDismissed, g.Evaluate())

	// a fresh mount sees the new age
	fresh := NewStalenessGuard(e, WithGuardClock(func() time.Time { return now }))
	assert.Equal(t, GuardShown, fresh.Evaluate())
}

func TestStalenessGuard_Clear(t *testing.T) {
	e, store := stockedEngine(t)
	setLastAdded(t, store, guardNow.Add(-48*time.Hour))

	g := NewStalenessGuard(e, WithGuardClock(fixedNow))
	require.Equal(t, GuardShown, g.Evaluate())

	assert.Equal(t, GuardDismissed, g.Clear())
	assert.True(t, e.IsEmpty())
	assert.False(t, store.Has(CartKey))
	assert.False(t, store.Has(LastItemAddedAtKey))
	assert.Equal(t, GuardDismissed, g.State())
}

func TestStalenessGuard_ContinueKeepsCart(t *testing.T) {
	for name, resolve := range map[string]func(*StalenessGuard) GuardState{
		"continue": (*StalenessGuard).Continue,
		"backdrop": (*StalenessGuard).DismissBackdrop,
	} {
		t.Run(name, func(t *testing.T) {
			e, store := stockedEngine(t)
			setLastAdded(t, store, guardNow.Add(-48*time.Hour))
			before := e.Cart()

			g := NewStalenessGuard(e, WithGuardClock(fixedNow))
			require.Equal(t, GuardShown, g.Evaluate())

			assert.Equal(t, GuardDismissed, resolve(g))
			assert.Equal(t, before, e.Cart())
			assert.True(t, store.Has(CartKey))
		})
	}
}

func TestStalenessGuard_ResolveOutsideShownIsNoOp(t *testing.T) {
	e, store := stockedEngine(t)
	setLastAdded(t, store, guardNow.Add(-time.Hour))
	g := NewStalenessGuard(e, WithGuardClock(fixedNow))

	assert.Equal(t, GuardUnchecked, g.Clear())
	assert.False(t, e.IsEmpty())

	require.Equal(t, GuardDismissed, g.Evaluate())
	assert.Equal(t, GuardDismissed, g.Clear())
	assert.False(t, e.IsEmpty())
}

func TestStalenessGuard_MountEvaluatesAfterSettleDelay(t *testing.T) {
	e, store := stockedEngine(t)
	require.NoError(t, store.Remove(LastItemAddedAtKey))

	var mu sync.Mutex
	var seen []GuardState
	g := NewStalenessGuard(e,
		WithGuardClock(fixedNow),
		WithSettleDelay(10*time.Millisecond),
		WithOnChange(func(s GuardState) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, s)
		}),
	)

	g.Mount()
	assert.Equal(t, GuardUnchecked, g.State())

	require.Eventually(t, func() bool {
		return g.State() == GuardShown
	}, time.Second, 5*time.Millisecond)

	g.Continue()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []GuardState{GuardShown, GuardDismissed}, seen)
}

func TestStalenessGuard_UnmountCancelsPendingEvaluation(t *testing.T) {
	e, store := stockedEngine(t)
	require.NoError(t, store.Remove(LastItemAddedAtKey))

	g := NewStalenessGuard(e, WithGuardClock(fixedNow), WithSettleDelay(30*time.Millisecond))
	g.Mount()
	g.Unmount()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, GuardUnchecked, g.State())
}

func TestGuardState_String(t *testing.T) {
	assert.Equal(t, "unchecked", GuardUnchecked.String())
	assert.Equal(t, "shown", GuardShown.String())
	assert.Equal(t, "dismissed", GuardDismissed.String())
}
