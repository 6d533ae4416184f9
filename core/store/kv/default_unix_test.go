//go:build linux || darwin
// +build linux darwin

package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_MissingFolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "test.db")

	db, err := New(path)
	require.Nil(t, db)
	require.EqualError(t, err, "failed to open db: open "+path+": no such file or directory")
}
