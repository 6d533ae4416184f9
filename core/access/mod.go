// Package access defines the identities of the callers.
//
// An identity is anything that can be represented as text, for instance a
// public key. The textual form is the address of the identity: two identities
// are the same caller if and only if their addresses are equal.
package access

import (
	"encoding"

	"golang.org/x/xerrors"
)

// Identity is an abstraction to uniquely identify a caller.
type Identity interface {
	encoding.TextMarshaler
}

// Address is the comparable form of an identity. It is itself an identity.
//
// - implements access.Identity
type Address string

// AddressOf returns the address of the identity.
func AddressOf(ident Identity) (Address, error) {
	if ident == nil {
		return "", xerrors.New("identity is nil")
	}

	if addr, ok := ident.(Address); ok {
		return addr, nil
	}

	text, err := ident.MarshalText()
	if err != nil {
		return "", xerrors.Errorf("failed to marshal identity: %v", err)
	}

	if len(text) == 0 {
		return "", xerrors.New("identity is empty")
	}

	return Address(text), nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a), nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return string(a)
}
