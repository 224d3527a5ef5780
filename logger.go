package shadergraph

import (
	"log/slog"

	"github.com/gogpu/shadergraph/ir"
)

// SetLogger configures the logger for graph operations and code
// generation. By default nothing is logged. Pass nil to restore the silent
// default.
//
// Log levels used by shadergraph:
//   - [slog.LevelDebug]: pass summaries (scopes raised, attributes optimized, program generated)
//   - [slog.LevelWarn]: validation errors found by Prepare
//   - [slog.LevelError]: failed graph operations
func SetLogger(l *slog.Logger) {
	ir.SetLogger(l)
}

// Logger returns the current logger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return ir.Logger()
}
