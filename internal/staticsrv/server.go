// Package staticsrv implements a local HTTP server that serves a single directory
// of static files to the browser, with permissive CORS headers on every response.
//
// The server has two states, stopped and running. Start and Stop are idempotent
// and mutually exclusive; the accept loop runs on one background goroutine.
package staticsrv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"
)

const (
	DefaultPort = 8766
	DefaultHost = "127.0.0.1"

	defaultShutdownTimeout = 3 * time.Second
)

// Notifier displays a short message to the user.
type Notifier interface {
	Notify(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

// Server serves files from a fixed root directory on a fixed loopback port.
type Server struct {
	host     string
	port     int
	root     string
	fs       http.FileSystem
	router   *httprouter.Router
	notifier Notifier

	shutdownTimeout time.Duration // After it runs out active connections are closed.

	mu       sync.Mutex
	running  bool
	server   *http.Server
	listener net.Listener
	done     chan struct{} // closed when the serve goroutine returns.

	Logger  zerolog.Logger         // By default Logger is disabled, but can be manually attached.
	OpenURL func(url string) error // Launches the user's browser. Defaults to browser.OpenURL.
}

// NewServer initializes a stopped Server that will listen on host:port and serve
// files from root. An empty host means DefaultHost; port 0 picks a free port on Start.
// Notifications go to n, which may be nil.
func NewServer(host string, port int, root string, n Notifier) *Server {
	if host == "" {
		host = DefaultHost
	}
	if n == nil {
		n = nopNotifier{}
	}
	s := &Server{
		host:     host,
		port:     port,
		root:     root,
		fs:       http.Dir(root),
		router:   httprouter.New(),
		notifier: n,

		shutdownTimeout: defaultShutdownTimeout,

		Logger:  zerolog.New(os.Stderr).Level(zerolog.Disabled),
		OpenURL: browser.OpenURL,
	}
	s.setupRoutes()
	return s
}

// ServeHTTP makes the server implement the http.Handler interface.
// CORS headers are set before routing so that every response carries them.
// A server-wide "OPTIONS *" is acknowledged here, the router only knows paths.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w.Header())
	if r.Method == http.MethodOptions && r.URL.Path == "*" {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.router.ServeHTTP(w, r)
}

// Start binds the listener and starts serving in the background.
// Calling Start on a running server does nothing.
//
// A failed bind is reported through the Notifier and returned as *BindError;
// the server stays stopped.
func (s *Server) Start() error {
	msg, err := s.start()
	if msg != "" {
		s.notifier.Notify(msg)
	}
	return err
}

// Stop shuts the server down and waits for the serve goroutine to exit.
// Calling Stop on a stopped server does nothing.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		s.Logger.Error().Err(err).Msg("http server shutdown failed, closing active connections")
		err = errors.Join(err, s.server.Close())
	}
	<-s.done

	s.server = nil
	s.listener = nil
	s.done = nil
	s.running = false
	s.Logger.Info().Msg("http server has been shutdown")
	return err
}

// OpenInBrowser opens the server's URL in the default browser. If the server is
// not running the user is asked to start it first; it is never started implicitly.
func (s *Server) OpenInBrowser() {
	s.mu.Lock()
	running, url := s.running, s.url()
	s.mu.Unlock()

	if !running {
		s.Logger.Debug().Err(ErrNotRunning).Msg("browser not opened")
		s.notifier.Notify("Server is not running. Please start the server first.")
		return
	}
	if err := s.OpenURL(url); err != nil {
		s.Logger.Error().Err(err).Msg("failed to open browser at " + url)
	}
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Port returns the bound port while running, and the configured port otherwise.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundPort()
}

// Addr returns the host:port the server listens (or will listen) on.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return net.JoinHostPort(s.host, strconv.Itoa(s.boundPort()))
}

// URL returns the address users open in the browser.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url()
}

// Root returns the directory being served.
func (s *Server) Root() string {
	return s.root
}

func (s *Server) start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return "", nil
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		s.Logger.Error().Err(err).Msg("failed to start listener on " + addr)
		return "Failed to start server: " + err.Error(), &BindError{Addr: addr, Err: err}
	}

	srv := &http.Server{
		Handler:  s,
		ErrorLog: log.New(s.Logger, "", 0),

		// "OPTIONS *" must reach the router to get CORS headers.
		DisableGeneralOptionsHandler: true,
	}
	done := make(chan struct{})
	go s.serve(srv, lis, done)

	s.server = srv
	s.listener = lis
	s.done = done
	s.running = true
	s.Logger.Info().Str("root", s.root).Msg("http server started on " + lis.Addr().String())
	return "Card Generator server started at " + s.url(), nil
}

func (s *Server) serve(srv *http.Server, lis net.Listener, done chan struct{}) {
	defer close(done)
	err := srv.Serve(lis)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.Error().Err(err).Msg("http server failed")
	}
}

func (s *Server) boundPort() int {
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.port
}

func (s *Server) url() string {
	return fmt.Sprintf("http://localhost:%d", s.boundPort())
}
