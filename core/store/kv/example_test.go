package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.dedis.ch/dela-pool/core/store"
	"golang.org/x/xerrors"
)

func ExampleStore_Stage() {
	dir, err := os.MkdirTemp(os.TempDir(), "example")
	if err != nil {
		panic("failed to create folder: " + err.Error())
	}

	defer os.RemoveAll(dir)

	db, err := New(filepath.Join(dir, "example.db"))
	if err != nil {
		panic("failed to open db: " + err.Error())
	}

	defer db.Close()

	s, err := NewStore(db, []byte("balances"))
	if err != nil {
		panic("failed to create store: " + err.Error())
	}

	err = s.Stage(func(snap store.Snapshot) error {
		return snap.Set([]byte("alice"), []byte("10"))
	})
	if err != nil {
		panic("database write failed: " + err.Error())
	}

	// A failing stage leaves the store untouched.
	err = s.Stage(func(snap store.Snapshot) error {
		err := snap.Set([]byte("alice"), []byte("0"))
		if err != nil {
			return err
		}

		return xerrors.New("transfer failed")
	})
	fmt.Println(err)

	value, err := s.Get([]byte("alice"))
	if err != nil {
		panic("database read failed: " + err.Error())
	}

	balance, _ := strconv.Atoi(string(value))
	fmt.Println("alice:", balance)

	// Output: transfer failed
	// alice: 10
}
