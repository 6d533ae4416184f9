package access

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestAddressOf(t *testing.T) {
	addr, err := AddressOf(Address("alice"))
	require.NoError(t, err)
	require.Equal(t, Address("alice"), addr)

	addr, err = AddressOf(textIdentity{text: "bob"})
	require.NoError(t, err)
	require.Equal(t, Address("bob"), addr)

	_, err = AddressOf(nil)
	require.EqualError(t, err, "identity is nil")

	_, err = AddressOf(textIdentity{})
	require.EqualError(t, err, "identity is empty")

	_, err = AddressOf(textIdentity{err: xerrors.New("oops")})
	require.EqualError(t, err, "failed to marshal identity: oops")
}

func TestAddress_MarshalText(t *testing.T) {
	text, err := Address("alice").MarshalText()
	require.NoError(t, err)
	require.Equal(t, "alice", string(text))
	require.Equal(t, "alice", Address("alice").String())
}

// -----------------------------------------------------------------------------
// Utility functions

type textIdentity struct {
	text string
	err  error
}

func (i textIdentity) MarshalText() ([]byte, error) {
	return []byte(i.text), i.err
}
