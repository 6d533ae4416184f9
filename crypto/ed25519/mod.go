// Package ed25519 implements the accounts of the node as key pairs of the
// Edwards 25519 elliptic curve.
//
// The address of an account is the text form of its public key.
package ed25519

import (
	"encoding/hex"
	"fmt"
	"strings"

	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/suites"
	"go.dedis.ch/kyber/v3/util/key"
	"golang.org/x/xerrors"
)

const (
	// Algorithm is the name of the curve used for the keys.
	Algorithm = "CURVE-ED25519"

	textPrefix = "schnorr:"
)

var suite = suites.MustFind("Ed25519")

// PublicKey is the public key adapter to the Kyber Ed25519 public key.
//
// - implements access.Identity
type PublicKey struct {
	point kyber.Point
}

// NewPublicKey returns a new public key from the data.
func NewPublicKey(data []byte) (PublicKey, error) {
	point := suite.Point()
	err := point.UnmarshalBinary(data)
	if err != nil {
		return PublicKey{}, xerrors.Errorf("couldn't unmarshal point: %v", err)
	}

	return PublicKey{point: point}, nil
}

// NewPublicKeyFromPoint creates a new public key from an existing point.
func NewPublicKeyFromPoint(point kyber.Point) PublicKey {
	return PublicKey{
		point: point,
	}
}

// PublicKeyOf parses the address of an account back to its public key.
func PublicKeyOf(addr access.Address) (PublicKey, error) {
	text := string(addr)
	if !strings.HasPrefix(text, textPrefix) {
		return PublicKey{}, xerrors.Errorf("invalid address prefix in '%s'", text)
	}

	data, err := hex.DecodeString(strings.TrimPrefix(text, textPrefix))
	if err != nil {
		return PublicKey{}, xerrors.Errorf("couldn't decode address: %v", err)
	}

	return NewPublicKey(data)
}

// MarshalBinary implements encoding.BinaryMarshaler. It produces a slice of
// bytes representing the public key.
func (pk PublicKey) MarshalBinary() ([]byte, error) {
	return pk.point.MarshalBinary()
}

// MarshalText implements encoding.TextMarshaler. It returns a text
// representation of the public key.
func (pk PublicKey) MarshalText() ([]byte, error) {
	buffer, err := pk.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return []byte(fmt.Sprintf("%s%x", textPrefix, buffer)), nil
}

// Equal returns true if the other public key is the same.
func (pk PublicKey) Equal(other interface{}) bool {
	pubkey, ok := other.(PublicKey)
	if !ok {
		return false
	}

	return pubkey.point.Equal(pk.point)
}

// GetPoint returns the kyber.point.
func (pk PublicKey) GetPoint() kyber.Point {
	return pk.point
}

// String implements fmt.Stringer. It returns a short string representation of
// the point.
func (pk PublicKey) String() string {
	buffer, err := pk.MarshalText()
	if err != nil {
		return "schnorr:malformed_point"
	}

	// Output only the prefix and 16 characters of the buffer in hexadecimal.
	return string(buffer)[:len(textPrefix)+16]
}

// Signer is the key pair of an account.
type Signer struct {
	keyPair *key.Pair
}

// NewSigner returns a new random key pair.
func NewSigner() Signer {
	return Signer{
		keyPair: key.NewKeyPair(suite),
	}
}

// NewSignerFromBytes restores a key pair from a marshaled private key.
func NewSignerFromBytes(data []byte) (Signer, error) {
	scalar := suite.Scalar()
	err := scalar.UnmarshalBinary(data)
	if err != nil {
		return Signer{}, xerrors.Errorf("couldn't unmarshal scalar: %v", err)
	}

	kp := &key.Pair{
		Private: scalar,
		Public:  suite.Point().Mul(scalar, nil),
	}

	return Signer{keyPair: kp}, nil
}

// GetPublicKey returns the public key of the account.
func (s Signer) GetPublicKey() PublicKey {
	return PublicKey{point: s.keyPair.Public}
}

// GetAddress returns the address of the account.
func (s Signer) GetAddress() (access.Address, error) {
	return access.AddressOf(s.GetPublicKey())
}

// GetPrivateKey returns the signer's private key.
func (s Signer) GetPrivateKey() kyber.Scalar {
	return s.keyPair.Private
}

// MarshalBinary implements encoding.BinaryMarshaler. It returns the private key
// of the signer.
func (s Signer) MarshalBinary() ([]byte, error) {
	return s.keyPair.Private.MarshalBinary()
}
