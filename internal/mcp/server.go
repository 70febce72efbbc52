// ABOUTME: Static registry of MCP endpoints and per-endpoint server construction.
// ABOUTME: Each endpoint carries its name, SSE path, and the function that binds its handlers.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// PathPrefix is the HTTP prefix every endpoint path lives under.
const PathPrefix = "/mcp/"

// ErrDuplicateEndpoint is returned when a name or path is registered twice.
var ErrDuplicateEndpoint = errors.New("duplicate endpoint")

// Endpoint describes one MCP server exposed by the runtime.
type Endpoint struct {
	Name     string
	Version  string
	SSEPath  string
	Register func(*mcp.Server)
}

// BasePath is SSEPath without its trailing "/sse".
func (e Endpoint) BasePath() string {
	return strings.TrimSuffix(e.SSEPath, "/sse")
}

// StreamPath is where the streamable HTTP transport for the endpoint is mounted.
func (e Endpoint) StreamPath() string {
	return e.BasePath() + "/stream"
}

func (e Endpoint) validate() error {
	if e.Name == "" {
		return fmt.Errorf("endpoint name is required")
	}
	if !strings.HasPrefix(e.SSEPath, PathPrefix) || !strings.HasSuffix(e.SSEPath, "/sse") {
		return fmt.Errorf("endpoint %s: sse path must look like %s<name>/sse, got %q", e.Name, PathPrefix, e.SSEPath)
	}
	if e.Register == nil {
		return fmt.Errorf("endpoint %s: no register function", e.Name)
	}
	return nil
}

// Registry is the ordered list of endpoints built at startup.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry builds a registry from the given endpoints in order.
func NewRegistry(endpoints ...Endpoint) (*Registry, error) {
	r := &Registry{}
	for _, ep := range endpoints {
		if err := r.Add(ep); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends an endpoint. Names and SSE paths must be unique.
func (r *Registry) Add(ep Endpoint) error {
	if err := ep.validate(); err != nil {
		return err
	}
	for _, existing := range r.endpoints {
		if existing.Name == ep.Name {
			return fmt.Errorf("%w: name %q", ErrDuplicateEndpoint, ep.Name)
		}
		if existing.BasePath() == ep.BasePath() {
			return fmt.Errorf("%w: path %q", ErrDuplicateEndpoint, ep.SSEPath)
		}
	}
	r.endpoints = append(r.endpoints, ep)
	return nil
}

// Endpoints returns a copy of the registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Lookup finds an endpoint by name.
func (r *Registry) Lookup(name string) (Endpoint, bool) {
	for _, ep := range r.endpoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// Names lists registered endpoint names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		names = append(names, ep.Name)
	}
	return names
}

// NewServer creates the SDK server for ep with logging and metrics attached.
func NewServer(ep Endpoint, logger *zap.Logger) *mcp.Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ep.Name,
			Version: ep.Version,
		},
		nil,
	)
	server.AddReceivingMiddleware(observe(ep.Name, logger))
	ep.Register(server)

	return server
}

// Serve runs a single endpoint over stdio until ctx is done or the client disconnects.
func Serve(ctx context.Context, ep Endpoint, logger *zap.Logger) error {
	return NewServer(ep, logger).Run(ctx, &mcp.StdioTransport{})
}
