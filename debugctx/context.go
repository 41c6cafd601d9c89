package debugctx

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type enabledKey struct{}
type writerKey struct{}

func WithEnabled(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, enabledKey{}, enabled)
}

func Enabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	enabled, _ := ctx.Value(enabledKey{}).(bool)
	return enabled
}

func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	if writer == nil {
		return ctx
	}

	return context.WithValue(ctx, writerKey{}, writer)
}

func Writer(ctx context.Context) io.Writer {
	if ctx == nil {
		return nil
	}

	writer, _ := ctx.Value(writerKey{}).(io.Writer)
	return writer
}

func Printf(ctx context.Context, format string, args ...any) {
	if !Enabled(ctx) {
		return
	}

	writer := Writer(ctx)
	if writer == nil {
		return
	}

	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		return
	}

	_, _ = fmt.Fprintf(writer, "debug: %s\n", message)
}

// Event prints an event name followed by key=value pairs. A trailing key
// without a value is printed with an empty value.
func Event(ctx context.Context, name string, keyValues ...any) {
	if !Enabled(ctx) {
		return
	}

	var builder strings.Builder
	builder.WriteString(strings.TrimSpace(name))
	for idx := 0; idx < len(keyValues); idx += 2 {
		key := fmt.Sprint(keyValues[idx])
		var value any = ""
		if idx+1 < len(keyValues) {
			value = keyValues[idx+1]
		}
		if text, ok := value.(string); ok {
			fmt.Fprintf(&builder, " %s=%q", key, text)
			continue
		}
		fmt.Fprintf(&builder, " %s=%v", key, value)
	}

	Printf(ctx, "%s", builder.String())
}
