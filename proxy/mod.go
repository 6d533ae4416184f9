// Package proxy defines the HTTP front of a node, which exposes read-only
// views of the state and the metrics of the components.
package proxy

import (
	"net"
	"net/http"
)

// Proxy defines the primitives to implement an http server that handles
// client side requests.
type Proxy interface {
	// Listen starts the proxy server. This call is blocking until the server is
	// stopped or fails.
	Listen() error

	// Stop stops the proxy server.
	Stop()

	// GetAddr returns the address the server is listening to, or nil if it is
	// not listening yet.
	GetAddr() net.Addr

	// RegisterHandler registers a new handler.
	RegisterHandler(path string, handler func(http.ResponseWriter, *http.Request))
}
