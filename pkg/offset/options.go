package offset

// DefaultMaxDepth bounds the number of nested layers Build creates.
const DefaultMaxDepth = 4096

type config struct {
	verticalSpeed float64
	maxDepth      int
	timeSoFar     float64
}

func defaultConfig() config {
	return config{verticalSpeed: 1, maxDepth: DefaultMaxDepth}
}

// Option configures an Offset.
type Option func(*config)

// WithVerticalSpeed sets the factor that maps offset time to wall
// height. The default is 1.
func WithVerticalSpeed(v float64) Option {
	return func(c *config) {
		c.verticalSpeed = v
	}
}

// WithMaxDepth bounds the number of nested layers. Build fails with
// ErrUnsupported past the bound.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithTimeSoFar starts the root layer at time t instead of 0.
func WithTimeSoFar(t float64) Option {
	return func(c *config) {
		c.timeSoFar = t
	}
}
