package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWatcher_Add(t *testing.T) {
	watcher := NewWatcher()

	watcher.Add(newFakeObserver())
	require.Equal(t, 1, watcher.Len())

	obs := newFakeObserver()
	watcher.Add(obs)
	require.Equal(t, 2, watcher.Len())

	watcher.Add(obs)
	require.Equal(t, 2, watcher.Len())
}

func TestWatcher_Remove(t *testing.T) {
	watcher := NewWatcher()
	watcher.Add(newFakeObserver())

	obs := newFakeObserver()
	watcher.Add(obs)
	require.Equal(t, 2, watcher.Len())

	watcher.Remove(obs)
	require.Equal(t, 1, watcher.Len())

	watcher.Remove(obs)
	require.Equal(t, 1, watcher.Len())
}

func TestWatcher_Notify(t *testing.T) {
	watcher := NewWatcher()

	obs := newFakeObserver()
	watcher.Add(obs)

	watcher.Notify("event")
	require.Equal(t, "event", <-obs.ch)
}

func TestWatcher_Notify_SelfRemove(t *testing.T) {
	watcher := NewWatcher()

	obs := &removingObserver{watcher: watcher}
	watcher.Add(obs)

	watcher.Notify("event")
	require.Equal(t, 0, watcher.Len())
	require.Equal(t, 1, obs.count)
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeObserver struct {
	ch chan interface{}
}

func (o fakeObserver) NotifyCallback(evt interface{}) {
	o.ch <- evt
}

func newFakeObserver() fakeObserver {
	return fakeObserver{
		ch: make(chan interface{}, 1),
	}
}

type removingObserver struct {
	watcher *Watcher
	count   int
}

func (o *removingObserver) NotifyCallback(interface{}) {
	o.count++
	o.watcher.Remove(o)
}
