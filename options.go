package rcaller

import "log/slog"

// options holds Parser configuration.
type options struct {
	// logger receives debug timings for each load stage
	logger *slog.Logger

	// naAsNaN decodes the NA token as NaN in floating point decoders
	naAsNaN bool

	// maxSize rejects payloads larger than this many bytes (0 = unlimited)
	maxSize int64
}

// Option configures a Parser.
type Option func(*options)

// defaultOptions returns the default parser options.
func defaultOptions() options {
	return options{
		logger:  slog.New(slog.DiscardHandler),
		naAsNaN: false,
		maxSize: 0,
	}
}

// WithLogger sets the logger used for load diagnostics. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNAAsNaN makes Float64s, Float32s and Matrix decode R's missing value
// marker NA as NaN instead of failing.
func WithNAAsNaN() Option {
	return func(o *options) {
		o.naAsNaN = true
	}
}

// WithMaxSize limits the size of the XML payload, measured after
// decompression. Larger artifacts fail to load as malformed.
func WithMaxSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}
