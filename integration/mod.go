// Package integration contains the end-to-end tests of the pools. The nodes of
// the tests are made of the production components: a bbolt database, the
// serial ordering service and the native execution of the pool contract.
package integration
