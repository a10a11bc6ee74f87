package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/jarcover/internal/client/store/storetest"
	"github.com/stretchr/testify/require"
)

type counter struct {
	N   int
	Log []string
}

type action interface{ isAction() }

type (
	inc       struct{}
	incTwice  struct{}
	note      struct{ S string }
	fetch     struct{ Release chan struct{} }
	fetched   struct{ V int }
	debounced struct{}
	fired     struct{}
	stopFetch struct{}
	pooled    struct{ Release chan struct{} }
	stopPool  struct{}
)

func (inc) isAction()       {}
func (incTwice) isAction()  {}
func (note) isAction()      {}
func (fetch) isAction()     {}
func (fetched) isAction()   {}
func (debounced) isAction() {}
func (fired) isAction()     {}
func (stopFetch) isAction() {}
func (pooled) isAction()    {}
func (stopPool) isAction()  {}

func reducer(clock Clock) Reducer[counter, action] {
	return func(s *counter, a action) Effect[action] {
		switch a := a.(type) {
		case inc:
			s.N++
			return None[action]()
		case incTwice:
			return Merge(Send[action](inc{}), Send[action](note{S: "a"}), Send[action](inc{}))
		case note:
			s.Log = append(s.Log, a.S)
			return None[action]()
		case fetch:
			return Run(func(ctx context.Context, send Sender[action]) {
				select {
				case <-a.Release:
				case <-ctx.Done():
				}
				send(fetched{V: 10})
			}).Cancellable("fetch")
		case fetched:
			s.N += a.V
			return None[action]()
		case stopFetch:
			return Cancel[action]("fetch")
		case pooled:
			return Run(func(ctx context.Context, send Sender[action]) {
				select {
				case <-a.Release:
				case <-ctx.Done():
				}
				send(fetched{V: 1})
			}).Grouped("pool")
		case stopPool:
			return Cancel[action]("pool")
		case debounced:
			s.N++
			return Debounce("save", clock, time.Second, func(ctx context.Context, send Sender[action]) {
				send(fired{})
			})
		case fired:
			s.Log = append(s.Log, "fired")
			return None[action]()
		}
		return None[action]()
	}
}

func TestStore_SyncSendsProcessedInOrder(t *testing.T) {
	s := New(counter{}, reducer(RealClock()))
	defer s.Close()

	var seen []string
	s.Observe(func(a action, st counter) {
		switch a.(type) {
		case inc:
			seen = append(seen, "inc")
		case note:
			seen = append(seen, "note")
		case incTwice:
			seen = append(seen, "incTwice")
		}
	})

	s.Send(incTwice{})

	require.Equal(t, 2, s.State().N)
	require.Equal(t, []string{"incTwice", "inc", "note", "inc"}, seen)
}

func TestStore_RunReportsBack(t *testing.T) {
	s := New(counter{}, reducer(RealClock()))
	defer s.Close()

	release := make(chan struct{})
	s.Send(fetch{Release: release})
	require.Equal(t, 0, s.State().N)

	close(release)
	s.Wait()
	require.Equal(t, 10, s.State().N)
}

func TestStore_CancelDropsLateSends(t *testing.T) {
	s := New(counter{}, reducer(RealClock()))
	defer s.Close()

	s.Send(fetch{Release: make(chan struct{})})
	s.Send(stopFetch{})
	s.Wait()

	require.Equal(t, 0, s.State().N)
}

func TestStore_CancellableReplacesInFlight(t *testing.T) {
	s := New(counter{}, reducer(RealClock()))
	defer s.Close()

	first := make(chan struct{})
	second := make(chan struct{})
	s.Send(fetch{Release: first})
	s.Send(fetch{Release: second})

	close(second)
	s.Wait()
	require.Equal(t, 10, s.State().N, "only the latest run reports")
}

func TestStore_DebounceCoalesces(t *testing.T) {
	clock := storetest.NewManualClock(time.Now())
	s := New(counter{}, reducer(clock))
	defer s.Close()

	s.Send(debounced{})
	s.Send(debounced{})
	s.Send(debounced{})
	require.True(t, clock.BlockUntil(1, time.Second))
	require.Equal(t, 1, clock.Sleepers())

	clock.Advance(999 * time.Millisecond)
	require.Empty(t, s.State().Log)

	clock.Advance(time.Millisecond)
	s.Wait()

	st := s.State()
	require.Equal(t, 3, st.N)
	require.Equal(t, []string{"fired"}, st.Log)
}

func TestStore_DebounceRestartsWindow(t *testing.T) {
	clock := storetest.NewManualClock(time.Now())
	s := New(counter{}, reducer(clock))
	defer s.Close()

	s.Send(debounced{})
	require.True(t, clock.BlockUntil(1, time.Second))
	clock.Advance(600 * time.Millisecond)

	s.Send(debounced{})
	require.True(t, clock.BlockUntil(1, time.Second))
	clock.Advance(600 * time.Millisecond)
	require.Empty(t, s.State().Log, "window restarted by the second action")

	clock.Advance(400 * time.Millisecond)
	s.Wait()
	require.Equal(t, []string{"fired"}, s.State().Log)
}

func TestStore_CloseStopsEffects(t *testing.T) {
	s := New(counter{}, reducer(RealClock()))

	s.Send(fetch{Release: make(chan struct{})})
	s.Close()
	require.Equal(t, 0, s.State().N)

	s.Send(fetch{Release: make(chan struct{})})
	s.Wait()
	require.Equal(t, 0, s.State().N, "no effects start after close")
}

func TestStore_ConcurrentSends(t *testing.T) {
	s := New(counter{}, reducer(RealClock()))
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Send(inc{})
		}()
	}
	wg.Wait()
	require.Equal(t, 50, s.State().N)
}

func TestStore_Grouped(t *testing.T) {
	tests := []struct {
		name string
		stop bool
		want int
	}{
		{name: "group members run side by side", want: 2},
		{name: "cancel stops the whole group", stop: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(counter{}, reducer(RealClock()))
			defer s.Close()

			release := make(chan struct{})
			s.Send(pooled{Release: release})
			s.Send(pooled{Release: release})
			if tt.stop {
				s.Send(stopPool{})
			}
			close(release)
			s.Wait()

			require.Equal(t, tt.want, s.State().N)
		})
	}
}

func TestMap(t *testing.T) {
	type parent struct{ child action }

	eff := Merge(Send[action](inc{}), Run(func(ctx context.Context, send Sender[action]) {
		send(fetched{V: 1})
	}), Cancel[action]("x"))

	mapped := Map(eff, func(a action) parent { return parent{child: a} })
	require.Equal(t, []parent{{child: inc{}}}, mapped.Actions())
	require.Equal(t, 1, mapped.Runs())

	var got []parent
	for _, o := range mapped.ops {
		if o.kind == opRun {
			o.run(context.Background(), func(p parent) { got = append(got, p) })
		}
	}
	require.Equal(t, []parent{{child: fetched{V: 1}}}, got)
}

func TestEffect_NoneAndCancellable(t *testing.T) {
	require.True(t, None[action]().IsNone())
	require.False(t, Send[action](inc{}).IsNone())

	e := Merge(Send[action](inc{}), Run(func(context.Context, Sender[action]) {})).Cancellable("id")
	for _, o := range e.ops {
		if o.kind == opRun {
			require.Equal(t, "id", o.id)
		} else {
			require.Empty(t, o.id)
		}
	}

	g := Merge(Run(func(context.Context, Sender[action]) {}), e).Grouped("group")
	require.Equal(t, "group", g.ops[0].id)
	require.True(t, g.ops[0].shared)
	require.Equal(t, "id", g.ops[2].id, "tagged runs keep their id")
	require.False(t, g.ops[2].shared)
}
