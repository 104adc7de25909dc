package errors

import (
	"github.com/go-drift/virtualcontent/pkg/logging"
	"go.uber.org/zap"
)

// LogHandler is an ErrorHandler that writes errors to a zap logger.
type LogHandler struct {
	// Logger receives the entries. Nil means the global logger.
	Logger *zap.Logger
	// Verbose attaches stack traces to the entries.
	Verbose bool
}

func (h *LogHandler) logger() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logging.L()
}

// HandleError logs a VirtualError at warn level.
func (h *LogHandler) HandleError(err *VirtualError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Item != "" {
		fields = append(fields, zap.String("item", err.Item))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Warn("virtual content error", fields...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("virtual content panic", fields...)
}
