// ABOUTME: Receiving middleware for every MCP endpoint.
// ABOUTME: Logs each method call and records it in metrics.
package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/trans/sfm-mcp/internal/metrics"
	"go.uber.org/zap"
)

var errToolFailed = errors.New("tool returned an error result")

// observe logs every incoming MCP method and records it in metrics.
func observe(endpoint string, logger *zap.Logger) mcp.Middleware {
	log := logger.With(zap.String("endpoint", endpoint))

	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			res, err := next(ctx, method, req)

			fields := []zap.Field{
				zap.String("method", method),
				zap.Duration("elapsed", time.Since(start)),
			}
			if ctr, ok := req.(*mcp.CallToolRequest); ok && ctr.Params != nil {
				fields = append(fields, zap.String("tool", ctr.Params.Name))
			}

			// Tool handler errors come back as results, not protocol errors.
			observed := err
			if r, ok := res.(*mcp.CallToolResult); ok && r != nil && r.IsError && observed == nil {
				observed = errToolFailed
			}
			metrics.ObserveMCP(endpoint, method, start, observed)

			switch {
			case err != nil:
				log.Warn("mcp.request_failed", append(fields, zap.Error(err))...)
			case observed != nil:
				log.Info("mcp.tool_error", fields...)
			default:
				log.Debug("mcp.request", fields...)
			}
			return res, err
		}
	}
}
