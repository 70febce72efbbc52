// ABOUTME: Error translator turning any fault into a 500 error envelope.
// ABOUTME: Serves as the Fiber ErrorHandler and as net/http panic recovery.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/trans/sfm-mcp/internal/metrics"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request id set by the outer middleware.
const RequestIDHeader = "X-Request-ID"

const panicLocal = "sfm.panic"

// Translator renders faults. There is one per process.
type Translator struct {
	logger *zap.Logger
}

// NewTranslator creates a translator logging to logger.
func NewTranslator(logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{logger: logger}
}

// ErrorHandler is installed as fiber.Config.ErrorHandler. Routing errors
// raised by Fiber keep their status; every other error is a 500 fault.
func (t *Translator) ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(Failure(err))
	}

	kind := "error"
	if panicked, _ := c.Locals(panicLocal).(bool); panicked {
		kind = "panic"
	}
	t.fault(kind, c.Method(), c.Path(), c.Get(RequestIDHeader), err)

	return c.Status(fiber.StatusInternalServerError).JSON(Failure(err))
}

// StackTraceHandler marks the request as panicked for ErrorHandler.
func (t *Translator) StackTraceHandler(c *fiber.Ctx, e interface{}) {
	c.Locals(panicLocal, true)
}

// HeaderWriter is implemented by response wrappers that know whether the
// status line has already been sent.
type HeaderWriter interface {
	HeaderWritten() bool
}

// Recover catches panics from plain net/http handlers, such as the MCP
// transports, and writes the same error envelope.
func (t *Translator) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			t.fault("panic", r.Method, r.URL.Path, r.Header.Get(RequestIDHeader), err)

			// A started stream can't be turned into an envelope.
			if hw, ok := w.(HeaderWriter); ok && hw.HeaderWritten() {
				return
			}
			WriteJSON(w, http.StatusInternalServerError, Failure(err))
		}()

		next.ServeHTTP(w, r)
	})
}

func (t *Translator) fault(kind, method, path, requestID string, err error) {
	metrics.FaultsTotal.WithLabelValues(kind).Inc()
	t.logger.Error("api.fault",
		zap.String("kind", kind),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Error(err),
	)
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
