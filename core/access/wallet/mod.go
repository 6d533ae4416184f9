// Package wallet manages the accounts of a node. An account is an Ed25519 key
// pair stored in a file named after the account, and its address is the text
// form of the public key.
package wallet

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.dedis.ch/dela-pool/core/access"
	"go.dedis.ch/dela-pool/crypto/ed25519"
	"go.dedis.ch/dela-pool/crypto/loader"
	"golang.org/x/xerrors"
)

const keyExt = ".key"

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Account is a named key pair of the wallet.
type Account struct {
	Name   string
	Signer ed25519.Signer
}

// GetIdentity returns the identity of the account, which is its public key.
func (a Account) GetIdentity() access.Identity {
	return a.Signer.GetPublicKey()
}

// GetAddress returns the address of the account.
func (a Account) GetAddress() (access.Address, error) {
	return a.Signer.GetAddress()
}

// Wallet is a folder of account keys.
type Wallet struct {
	dir string

	loaderFac func(path string) loader.Loader
}

// NewWallet returns a wallet storing the keys in the given folder, which is
// created with the first account.
func NewWallet(dir string) Wallet {
	return Wallet{
		dir:       dir,
		loaderFac: loader.NewFileLoader,
	}
}

// Create generates the key of a new account. It returns an error if the
// account already exists.
func (w Wallet) Create(name string) (Account, error) {
	path, err := w.pathOf(name)
	if err != nil {
		return Account{}, err
	}

	_, err = os.Stat(path)
	if err == nil {
		return Account{}, xerrors.Errorf("account '%s' already exists", name)
	}

	data, err := w.loaderFac(path).LoadOrCreate(generator{})
	if err != nil {
		return Account{}, xerrors.Errorf("failed to create key: %v", err)
	}

	return makeAccount(name, data)
}

// Get loads an existing account.
func (w Wallet) Get(name string) (Account, error) {
	path, err := w.pathOf(name)
	if err != nil {
		return Account{}, err
	}

	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return Account{}, xerrors.Errorf("account '%s' not found", name)
	}

	data, err := w.loaderFac(path).Load()
	if err != nil {
		return Account{}, xerrors.Errorf("failed to load key: %v", err)
	}

	return makeAccount(name, data)
}

// List returns the accounts of the wallet sorted by name.
func (w Wallet) List() ([]Account, error) {
	entries, err := os.ReadDir(w.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, xerrors.Errorf("failed to read folder: %v", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), keyExt) {
			continue
		}

		names = append(names, strings.TrimSuffix(entry.Name(), keyExt))
	}

	sort.Strings(names)

	accounts := make([]Account, 0, len(names))
	for _, name := range names {
		account, err := w.Get(name)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

// Resolve returns the address of a reference, which is either the name of an
// account of the wallet or an address.
func (w Wallet) Resolve(ref string) (access.Address, error) {
	if strings.Contains(ref, ":") {
		_, err := ed25519.PublicKeyOf(access.Address(ref))
		if err != nil {
			return "", xerrors.Errorf("invalid address: %v", err)
		}

		return access.Address(ref), nil
	}

	account, err := w.Get(ref)
	if err != nil {
		return "", err
	}

	return account.GetAddress()
}

func (w Wallet) pathOf(name string) (string, error) {
	if !namePattern.MatchString(name) {
		return "", xerrors.Errorf("invalid account name '%s'", name)
	}

	return filepath.Join(w.dir, name+keyExt), nil
}

func makeAccount(name string, data []byte) (Account, error) {
	signer, err := ed25519.NewSignerFromBytes(data)
	if err != nil {
		return Account{}, xerrors.Errorf("invalid key of '%s': %v", name, err)
	}

	return Account{Name: name, Signer: signer}, nil
}

// generator creates the private key of a new account.
//
// - implements loader.Generator
type generator struct{}

// Generate implements loader.Generator.
func (generator) Generate() ([]byte, error) {
	return ed25519.NewSigner().MarshalBinary()
}
