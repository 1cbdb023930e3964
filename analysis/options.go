package analysis

import (
	"github.com/RyanBlaney/sonido-workbench/algorithms/windowing"
	"github.com/RyanBlaney/sonido-workbench/logging"
)

// DefaultImageSize is the working resolution of synthesized gratings
const DefaultImageSize = 64

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWindow tapers samples before 1-D transforms. The default rectangular
// window leaves samples unchanged.
func WithWindow(typ windowing.Type) Option {
	return func(s *Session) {
		s.window = typ
	}
}

// WithImageSize sets the N×N size gratings are rendered at
func WithImageSize(size int) Option {
	return func(s *Session) {
		if size > 0 {
			s.imageSize = size
		}
	}
}
