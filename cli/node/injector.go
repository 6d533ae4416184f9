// This file contains the implementation of a dependency injector using
// reflection.

package node

import (
	"reflect"

	"golang.org/x/xerrors"
)

// reflectInjector is a dependency injector that uses reflection to resolve
// specific interfaces. Dependencies are looked up in the order they have been
// injected, and injecting a value of a known type replaces it.
//
// - implements node.Injector
type reflectInjector struct {
	deps []interface{}
}

// NewInjector returns a empty injector.
func NewInjector() Injector {
	return &reflectInjector{}
}

// Resolve implements node.Injector. It populates the given interface with the
// first compatible dependency.
func (inj *reflectInjector) Resolve(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return xerrors.New("expect a pointer")
	}

	if !rv.Elem().IsValid() {
		return xerrors.Errorf("reflect value '%v' is invalid", rv)
	}

	target := rv.Elem().Type()

	for _, dep := range inj.deps {
		if reflect.TypeOf(dep).AssignableTo(target) {
			rv.Elem().Set(reflect.ValueOf(dep))
			return nil
		}
	}

	return xerrors.Errorf("couldn't find dependency for '%v'", target)
}

// Inject implements node.Injector. It injects the dependency to be available
// later on.
func (inj *reflectInjector) Inject(v interface{}) {
	typ := reflect.TypeOf(v)

	for i, dep := range inj.deps {
		if reflect.TypeOf(dep) == typ {
			inj.deps[i] = v
			return
		}
	}

	inj.deps = append(inj.deps, v)
}
