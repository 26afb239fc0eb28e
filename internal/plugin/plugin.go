// Package plugin adapts the static server to the lifecycle of the host application.
package plugin

import (
	"time"

	"github.com/nmezhenskyi/cardsrv/internal/staticsrv"
)

const (
	// MenuTitle is the label of the host menu entry that triggers OnMenuTrigger.
	MenuTitle = "Card Generator"

	// openDelay gives a freshly started server a moment before the browser navigates to it.
	openDelay = 500 * time.Millisecond
)

// Lifecycle is driven by the host on application load and unload.
type Lifecycle interface {
	OnLoad()
	OnUnload()
}

// Host is what the plugin consumes from the host application.
type Host interface {
	staticsrv.Notifier

	// AfterFunc runs f once after d has elapsed.
	AfterFunc(d time.Duration, f func())
}

// Plugin owns a static server and reacts to host events.
type Plugin struct {
	srv  *staticsrv.Server
	host Host
}

var _ Lifecycle = (*Plugin)(nil)

func New(srv *staticsrv.Server, host Host) *Plugin {
	return &Plugin{srv: srv, host: host}
}

// OnLoad starts the server. A bind failure has already been shown to the user.
func (p *Plugin) OnLoad() {
	_ = p.srv.Start()
}

// OnUnload stops the server and releases its socket.
func (p *Plugin) OnUnload() {
	if err := p.srv.Stop(); err != nil {
		p.srv.Logger.Error().Err(err).Msg("failed to stop server on unload")
	}
}

// OnMenuTrigger opens the front-end, starting the server first if needed.
func (p *Plugin) OnMenuTrigger() {
	if p.srv.Running() {
		p.srv.OpenInBrowser()
		return
	}
	if err := p.srv.Start(); err != nil {
		return
	}
	p.host.AfterFunc(openDelay, p.srv.OpenInBrowser)
}

// Server returns the server owned by the plugin.
func (p *Plugin) Server() *staticsrv.Server {
	return p.srv
}
