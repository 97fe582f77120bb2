package safe

import (
	"context"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/errutil"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/logging"
)

// Close closes closer and logs a failure. A nil closer is a no-op.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close", "error", err)
	}
}

// Write writes data to w. Failed and short writes are logged, since the
// response is already committed by the time they happen.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(data)
	if err != nil {
		logging.From(ctx).Error("failed to write", "error", err, "written", n, "size", len(data))
		return
	}
	if n < len(data) {
		logging.From(ctx).Warn("short write", "written", n, "size", len(data))
	}
}

// Println writes s and a trailing newline to w.
func Println(ctx context.Context, w io.Writer, s string) {
	Write(ctx, w, []byte(s+"\n"))
}

// Shutdown runs stop on a fresh context bounded by timeout. ctx only
// supplies the logger, as it is usually already cancelled at this point.
func Shutdown(ctx context.Context, name string, timeout time.Duration, stop func(context.Context) error) {
	if stop == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(logging.With(context.Background(), logging.From(ctx)), timeout)
	defer cancel()

	if err := stop(shutdownCtx); err != nil {
		_ = errutil.Handle(shutdownCtx, goerr.Wrap(err, "shutdown failed", goerr.V("component", name)), "failed to shut down")
	}
}
