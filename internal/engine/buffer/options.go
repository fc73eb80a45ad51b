package buffer

import (
	"go.uber.org/zap"

	"github.com/dshills/textengine/internal/engine/lru"
	"github.com/dshills/textengine/internal/engine/rope"
)

// DefaultLineCacheSize is the number of line texts memoised by default.
const DefaultLineCacheSize = lru.DefaultCapacity

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLogger sets the logger used to trace structural rope operations.
// A nil logger makes construction fail with ErrNilLogger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Buffer) {
		if logger == nil {
			b.initErr = ErrNilLogger
			return
		}
		b.logger = logger
	}
}

// WithLineCacheSize sets how many line texts are memoised.
func WithLineCacheSize(size int) Option {
	return func(b *Buffer) {
		b.cacheSize = size
	}
}

// WithRopeOptions passes options to the underlying rope.
// Ignored by NewFromRope, which adopts an existing rope.
func WithRopeOptions(opts ...rope.Option) Option {
	return func(b *Buffer) {
		b.ropeOpts = append(b.ropeOpts, opts...)
	}
}
