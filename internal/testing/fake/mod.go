// Package fake provides fake implementations for interfaces commonly used in
// the repository.
// The implementations offer configuration to return errors when it is needed by
// the unit test and it is also possible to record the call of functions of an
// object in some cases.
package fake

import (
	"sync"

	"golang.org/x/xerrors"
)

var fakeErr = xerrors.New("fake error")

// GetError returns the fake error used by the fake implementations.
func GetError() error {
	return fakeErr
}

// Err returns the expected message of an error wrapping the fake error with the
// given context.
func Err(msg string) string {
	return msg + ": " + fakeErr.Error()
}

// Call is a tool to keep track of a function calls.
type Call struct {
	sync.Mutex
	calls [][]interface{}
}

// NewCall returns a new empty call tracker.
func NewCall() *Call {
	return &Call{}
}

// Get returns the nth call ith parameter.
func (c *Call) Get(n, i int) interface{} {
	c.Lock()
	defer c.Unlock()

	return c.calls[n][i]
}

// Len returns the number of calls.
func (c *Call) Len() int {
	c.Lock()
	defer c.Unlock()

	return len(c.calls)
}

// Add adds a call to the list.
func (c *Call) Add(args ...interface{}) {
	c.Lock()
	c.calls = append(c.calls, args)
	c.Unlock()
}

// Identity is a fake implementation of access.Identity.
type Identity struct {
	text string
	err  error
}

// NewIdentity returns a fake identity with the given textual form.
func NewIdentity(text string) Identity {
	return Identity{text: text}
}

// NewBadIdentity returns a fake identity that fails to marshal.
func NewBadIdentity() Identity {
	return Identity{err: fakeErr}
}

// MarshalText implements encoding.TextMarshaler.
func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.text), i.err
}

// String implements fmt.Stringer.
func (i Identity) String() string {
	return "fake.Identity"
}
