package controller

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/cli/node"
	"go.dedis.ch/dela-pool/proxy"
	proxyhttp "go.dedis.ch/dela-pool/proxy/http"
	"golang.org/x/xerrors"
)

var (
	defaultRetry = 50
	retryDelay   = 100 * time.Millisecond

	proxyFac func(string) proxy.Proxy = func(addr string) proxy.Proxy {
		return proxyhttp.NewHTTP(addr)
	}
)

type startAction struct{}

// Execute implements node.ActionTemplate. It starts and injects the proxy http
// server.
func (a startAction) Execute(ctx node.Context) error {
	var current proxy.Proxy

	err := ctx.Injector.Resolve(&current)
	if err == nil {
		return xerrors.Errorf("proxy already listening on %v", current.GetAddr())
	}

	addr := ctx.Flags.String("clientaddr")

	srv := proxyFac(addr)

	errs := make(chan error, 1)

	go func() {
		err := srv.Listen()
		if err != nil {
			dela.Logger.Err(err).Msg("proxy server failed")
			errs <- err
		}
	}()

	for i := 0; i < defaultRetry && srv.GetAddr() == nil; i++ {
		select {
		case err := <-errs:
			return xerrors.Errorf("failed to start proxy server: %v", err)
		case <-time.After(retryDelay):
		}
	}

	if srv.GetAddr() == nil {
		srv.Stop()
		return xerrors.New("failed to start proxy server")
	}

	ctx.Injector.Inject(srv)

	fmt.Fprintf(ctx.Out, "started proxy server on %s", srv.GetAddr().String())

	return nil
}

var registerOnce sync.Once

type promAction struct{}

// Execute implements node.ActionTemplate. It registers the Prometheus handler.
func (a promAction) Execute(ctx node.Context) error {
	var srv proxy.Proxy

	err := ctx.Injector.Resolve(&srv)
	if err != nil {
		return xerrors.Errorf("failed to resolve the proxy: %v", err)
	}

	path := ctx.Flags.String("path")

	registerOnce.Do(func() {
		for _, c := range dela.PromCollectors {
			err := prometheus.DefaultRegisterer.Register(c)
			if err != nil {
				fmt.Fprintf(ctx.Out, "ERROR: failed to register: %v\n", err)
			}
		}
	})

	err = register(srv, path, promhttp.Handler().ServeHTTP)
	if err != nil {
		return xerrors.Errorf("failed to register handler: %v", err)
	}

	fmt.Fprintf(ctx.Out, "registered prometheus service on %q", path)

	return nil
}

// register adds the handler to the proxy. The standard multiplexer panics
// when a path is registered twice, which is reported as an error instead.
func register(srv proxy.Proxy, path string, h http.HandlerFunc) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = xerrors.Errorf("%v", r)
		}
	}()

	srv.RegisterHandler(path, h)

	return nil
}
