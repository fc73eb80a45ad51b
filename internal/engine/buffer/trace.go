package buffer

import (
	"go.uber.org/zap"

	"github.com/dshills/textengine/internal/engine/rope"
)

// zapTracer reports structural rope events at debug level.
type zapTracer struct {
	log *zap.Logger
}

func newZapTracer(log *zap.Logger) rope.Tracer {
	return zapTracer{log: log.Named("rope")}
}

func (t zapTracer) OnInsert(index, n int) {
	t.log.Debug("insert", zap.Int("index", index), zap.Int("bytes", n))
}

func (t zapTracer) OnDelete(start, n int) {
	t.log.Debug("delete", zap.Int("start", start), zap.Int("bytes", n))
}

func (t zapTracer) OnRotate(dir rope.Rotation, height int) {
	t.log.Debug("rotate", zap.Stringer("dir", dir), zap.Int("height", height))
}

func (t zapTracer) OnRebuild(oldHeight, newHeight, leaves int) {
	t.log.Info("rebuild",
		zap.Int("old_height", oldHeight),
		zap.Int("new_height", newHeight),
		zap.Int("leaves", leaves),
	)
}
