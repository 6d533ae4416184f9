// This file contains the implementation of a client and a daemon talking
// through a UNIX socket.

package node

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.dedis.ch/dela-pool"
	"go.dedis.ch/dela-pool/cli"
	"golang.org/x/xerrors"
)

const (
	ioTimeout  = 30 * time.Second
	socketName = "daemon.sock"
)

// message is the structure sent by the daemon to the client for each output
// of the action, or once when the action fails.
type message struct {
	Err   bool
	Value string
}

// socketClient opens a connection to a unix socket daemon to send commands.
//
// - implements node.Client
type socketClient struct {
	socketpath  string
	out         io.Writer
	dialTimeout time.Duration
	dialFn      func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// Send implements node.Client. It opens a connection and sends the data to the
// daemon. It writes the outputs of the command until the daemon closes the
// connection.
func (c socketClient) Send(data []byte) error {
	conn, err := c.dialFn("unix", c.socketpath, c.dialTimeout)
	if err != nil {
		return xerrors.Errorf("couldn't open connection: %v", err)
	}

	defer conn.Close()

	_, err = conn.Write(data)
	if err != nil {
		return xerrors.Errorf("couldn't write to daemon: %v", err)
	}

	dec := json.NewDecoder(conn)

	for {
		var msg message

		err = dec.Decode(&msg)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return xerrors.Errorf("failed to decode message: %v", err)
		}

		if msg.Err {
			return xerrors.New(msg.Value)
		}

		fmt.Fprintln(c.out, msg.Value)
	}
}

// socketDaemon is a daemon using UNIX socket. This allows the permissions to be
// managed by the filesystem. A user must have read/write access to send a
// command to the daemon.
//
// - implements node.Daemon
type socketDaemon struct {
	sync.WaitGroup

	logger      zerolog.Logger
	socketpath  string
	injector    Injector
	actions     *actionMap
	closing     chan struct{}
	readTimeout time.Duration
	listenFn    func(network, addr string) (net.Listener, error)
}

// Listen implements node.Daemon. It starts the daemon by creating the unix
// socket file to the path.
func (d *socketDaemon) Listen() error {
	socket, err := d.listenFn("unix", d.socketpath)
	if err != nil {
		return xerrors.Errorf("couldn't bind socket: %v", err)
	}

	d.Add(2)

	go func() {
		defer d.Done()

		<-d.closing
		socket.Close()
	}()

	go func() {
		defer d.Done()

		for {
			conn, err := socket.Accept()
			if err != nil {
				select {
				case <-d.closing:
				default:
					d.logger.Err(err).Msg("daemon closed unexpectedly")
				}
				return
			}

			go d.handleConn(conn)
		}
	}()

	return nil
}

func (d *socketDaemon) handleConn(conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(d.readTimeout))

	id, fset, err := d.readRequest(conn)
	if err == io.EOF {
		// Connection closed upfront, for instance when testing that the
		// daemon is reachable.
		return
	}
	if err != nil {
		d.sendError(conn, err)
		return
	}

	d.logger.Debug().
		Uint16("action", id).
		Str("flags", fmt.Sprintf("%v", fset)).
		Msg("received command on the daemon")

	action := d.actions.Get(id)
	if action == nil {
		d.sendError(conn, xerrors.Errorf("unknown command '%d'", id))
		return
	}

	actx := Context{
		Injector: d.injector,
		Flags:    fset,
		Out:      newClientWriter(conn),
	}

	err = action.Execute(actx)
	if err != nil {
		d.sendError(conn, xerrors.Errorf("command error: %v", err))
	}
}

// readRequest reads the identifier of the action over the first two bytes,
// followed by the JSON flag set.
func (d *socketDaemon) readRequest(conn net.Conn) (uint16, FlagSet, error) {
	buffer := make([]byte, 2)

	_, err := io.ReadFull(conn, buffer)
	if err == io.EOF {
		return 0, nil, err
	}
	if err != nil {
		return 0, nil, xerrors.Errorf("stream corrupted: %v", err)
	}

	fset := make(FlagSet)

	err = json.NewDecoder(conn).Decode(&fset)
	if err != nil {
		return 0, nil, xerrors.Errorf("failed to decode flags: %v", err)
	}

	return binary.LittleEndian.Uint16(buffer), fset, nil
}

func (d *socketDaemon) sendError(conn net.Conn, err error) {
	d.logger.Debug().Err(err).Msg("sending error to client")

	// The client fails with the value as the error message.
	err = json.NewEncoder(conn).Encode(message{Err: true, Value: err.Error()})
	if err != nil {
		d.logger.Warn().Err(err).Msg("connection to daemon has error")
	}
}

// Close implements node.Daemon. It closes the daemon and waits for the go
// routines to close.
func (d *socketDaemon) Close() error {
	close(d.closing)
	d.Wait()

	return nil
}

// clientWriter is a wrapper around a socket connection that will write the data
// using a JSON message wrapper.
//
// - implements io.Writer
type clientWriter struct {
	enc *json.Encoder
}

func newClientWriter(w io.Writer) *clientWriter {
	return &clientWriter{
		enc: json.NewEncoder(w),
	}
}

// Write implements io.Writer. It wraps the data into a JSON message that is
// written to the parent writer. The number of written bytes returned
// corresponds to the input if successful.
func (w *clientWriter) Write(data []byte) (int, error) {
	err := w.enc.Encode(message{Value: string(data)})
	if err != nil {
		return 0, xerrors.Errorf("while packing data: %v", err)
	}

	return len(data), nil
}

// socketFactory provides primitives to create a daemon and clients from a CLI
// context.
//
// - implements node.DaemonFactory
type socketFactory struct {
	injector Injector
	actions  *actionMap
	out      io.Writer
}

// ClientFromContext implements node.DaemonFactory. It creates a client based on
// the flags of the context.
func (f socketFactory) ClientFromContext(ctx cli.Flags) (Client, error) {
	client := socketClient{
		socketpath:  socketPath(ctx),
		out:         f.out,
		dialTimeout: ioTimeout,
		dialFn:      net.DialTimeout,
	}

	return client, nil
}

// DaemonFromContext implements node.DaemonFactory. It creates a daemon based on
// the flags of the context.
func (f socketFactory) DaemonFromContext(ctx cli.Flags) (Daemon, error) {
	path := socketPath(ctx)

	daemon := &socketDaemon{
		logger:      dela.Logger.With().Str("daemon", path).Logger(),
		socketpath:  path,
		injector:    f.injector,
		actions:     f.actions,
		closing:     make(chan struct{}),
		readTimeout: ioTimeout,
		listenFn:    net.Listen,
	}

	return daemon, nil
}

func socketPath(ctx cli.Flags) string {
	return filepath.Join(ctx.Path(ConfigFlag), socketName)
}
