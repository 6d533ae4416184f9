package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/dela-pool/core/store"
	"golang.org/x/xerrors"
)

func TestStore_Stage(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)

	defer db.Close()

	s, err := NewStore(db, []byte("state"))
	require.NoError(t, err)

	value, err := s.Get([]byte("A"))
	require.NoError(t, err)
	require.Nil(t, value)

	err = s.Stage(func(snap store.Snapshot) error {
		require.NoError(t, snap.Set([]byte("A"), []byte{1}))
		require.NoError(t, snap.Set([]byte("B"), []byte{2}))

		value, err := snap.Get([]byte("A"))
		require.NoError(t, err)
		require.Equal(t, []byte{1}, value)

		return snap.Delete([]byte("B"))
	})
	require.NoError(t, err)

	value, err = s.Get([]byte("A"))
	require.NoError(t, err)
	require.Equal(t, []byte{1}, value)

	value, err = s.Get([]byte("B"))
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestStore_Stage_RolledBack(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)

	defer db.Close()

	s, err := NewStore(db, []byte("state"))
	require.NoError(t, err)

	err = s.Stage(func(snap store.Snapshot) error {
		require.NoError(t, snap.Set([]byte("A"), []byte{1}))

		return xerrors.New("oops")
	})
	require.EqualError(t, err, "oops")

	value, err := s.Get([]byte("A"))
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := New(path)
	require.NoError(t, err)

	s, err := NewStore(db, []byte("state"))
	require.NoError(t, err)

	err = s.Stage(func(snap store.Snapshot) error {
		return snap.Set([]byte("A"), []byte("persisted"))
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)

	defer db.Close()

	s, err = NewStore(db, []byte("state"))
	require.NoError(t, err)

	value, err := s.Get([]byte("A"))
	require.NoError(t, err)
	require.Equal(t, []byte("persisted"), value)
}

func TestStore_Get_Closed(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)

	s, err := NewStore(db, []byte("state"))
	require.NoError(t, err)

	require.NoError(t, db.Close())

	_, err = s.Get([]byte("A"))
	require.EqualError(t, err, "failed to read db: database not open")

	_, err = NewStore(db, []byte("state"))
	require.EqualError(t, err, "failed to create bucket: database not open")
}
