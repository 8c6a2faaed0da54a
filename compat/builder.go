// FILE: lixenwraith/chanlog/compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/chanlog"
)

// DefaultChannel is the identity used when no channel is named
const DefaultChannel = "server"

// Builder creates gnet and fasthttp adapters over one channel.
// The channel is either given directly or resolved from a registry.
type Builder struct {
	channel  *chanlog.Logger
	registry *chanlog.Registry
	identity string
	err      error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{identity: DefaultChannel}
}

// WithChannel uses an existing channel, WithRegistry is then ignored
func (b *Builder) WithChannel(c *chanlog.Logger) *Builder {
	if c == nil {
		b.err = fmt.Errorf("chanlog/compat: provided channel cannot be nil")
		return b
	}
	b.channel = c
	return b
}

// WithRegistry resolves the channel named identity from reg, creating it if needed
func (b *Builder) WithRegistry(reg *chanlog.Registry, identity string) *Builder {
	if reg == nil {
		b.err = fmt.Errorf("chanlog/compat: provided registry cannot be nil")
		return b
	}
	b.registry = reg
	if identity != "" {
		b.identity = identity
	}
	return b
}

// getChannel resolves the channel, creating a default registry if none was given
func (b *Builder) getChannel() (*chanlog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.channel != nil {
		return b.channel, nil
	}

	if b.registry == nil {
		reg, err := chanlog.NewRegistry(nil)
		if err != nil {
			return nil, err
		}
		b.registry = reg
	}

	c, err := b.registry.GetOrCreate(b.identity)
	if err != nil {
		return nil, err
	}

	// Cache for subsequent builds
	b.channel = c
	return c, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	c, err := b.getChannel()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(c, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	c, err := b.getChannel()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(c, opts...), nil
}

// GetChannel returns the underlying channel, resolving it if needed
func (b *Builder) GetChannel() (*chanlog.Logger, error) {
	return b.getChannel()
}

// --- Example Usage ---
//
//	reg, _ := chanlog.NewRegistry(nil)
//	builder := compat.NewBuilder().WithRegistry(reg, "net")
//
//	gnetLogger, _ := builder.BuildGnet()
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
