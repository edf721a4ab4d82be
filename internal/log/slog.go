package log

import (
	"context"
	"log/slog"
)

// slogHandler bridges slog records into the zap-backed Logger.
type slogHandler struct {
	logger *Logger
	attrs  []Field
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelDebug
}

func (h *slogHandler) Handle(ctx context.Context, record slog.Record) error {
	fields := make([]Field, 0, record.NumAttrs()+len(h.attrs))
	fields = append(fields, h.attrs...)

	record.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, Any(attr.Key, attr.Value.Any()))
		return true
	})

	switch {
	case record.Level >= slog.LevelError:
		h.logger.Error(ctx, record.Message, fields...)
	case record.Level >= slog.LevelWarn:
		h.logger.Warn(ctx, record.Message, fields...)
	case record.Level >= slog.LevelInfo:
		h.logger.Info(ctx, record.Message, fields...)
	default:
		h.logger.Debug(ctx, record.Message, fields...)
	}

	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]Field, 0, len(h.attrs)+len(attrs))
	fields = append(fields, h.attrs...)

	for _, attr := range attrs {
		fields = append(fields, Any(attr.Key, attr.Value.Any()))
	}

	return &slogHandler{logger: h.logger, attrs: fields}
}

func (h *slogHandler) WithGroup(string) slog.Handler {
	return h
}
