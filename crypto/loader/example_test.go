package loader_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.dedis.ch/dela-pool/crypto/ed25519"
	"go.dedis.ch/dela-pool/crypto/loader"
)

func ExampleLoader_LoadOrCreate() {
	dir, err := os.MkdirTemp(os.TempDir(), "example")
	if err != nil {
		panic("no folder: " + err.Error())
	}

	defer os.RemoveAll(dir)

	keys := loader.NewFileLoader(filepath.Join(dir, "accounts", "alice.key"))

	// The first call generates the key of the account and writes it.
	created, err := keys.LoadOrCreate(signerGenerator{})
	if err != nil {
		panic("failed to create key: " + err.Error())
	}

	// The next calls read the same key from the file.
	loaded, err := keys.LoadOrCreate(signerGenerator{})
	if err != nil {
		panic("failed to load key: " + err.Error())
	}

	signer, err := ed25519.NewSignerFromBytes(loaded)
	if err != nil {
		panic("invalid key: " + err.Error())
	}

	addr, err := signer.GetAddress()
	if err != nil {
		panic("invalid address: " + err.Error())
	}

	fmt.Println("same key:", bytes.Equal(created, loaded))
	fmt.Println("address length:", len(addr))

	// Output: same key: true
	// address length: 72
}

type signerGenerator struct{}

func (signerGenerator) Generate() ([]byte, error) {
	return ed25519.NewSigner().MarshalBinary()
}
