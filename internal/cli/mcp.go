package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/itfview"
	"github.com/aretw0/itfview/internal/source"
	"github.com/aretw0/itfview/pkg/adapters/mcp"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP exposes the trace at path as an MCP server.
func ServeMCP(ctx context.Context, env *Env, path, transport string, port int) error {
	engine := itfview.New(itfview.WithLogger(env.Logger))
	srv := mcp.NewServer(engine, source.NewFile(path), mcp.WithLogger(env.Logger))

	switch transport {
	case TransportStdio:
		env.Logger.Info("Starting itfview MCP Server (Stdio)", "trace", path)
		return srv.ServeStdio()
	case TransportSSE:
		env.Logger.Info("Starting itfview MCP Server (SSE)", "port", port, "trace", path)
		return srv.ServeSSE(ctx, port)
	}
	return fmt.Errorf("unknown transport %q (want %s or %s)", transport, TransportStdio, TransportSSE)
}
