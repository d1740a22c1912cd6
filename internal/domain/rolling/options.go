package rolling

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWindows sets the short and long trailing window sizes.
func WithWindows(short, long int) Option {
	return func(c *Calculator) {
		if short > 0 && long >= short {
			c.shortWindow = short
			c.longWindow = long
		}
	}
}

// WithPriorSeasonDecay sets the flat weight applied to prior-season games.
func WithPriorSeasonDecay(decay float64) Option {
	return func(c *Calculator) {
		if decay > 0 && decay <= 1 {
			c.decay = decay
		}
	}
}

// WithMinGames sets the minimum qualifying games before a real (non-neutral)
// snapshot is produced.
func WithMinGames(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.minGames = n
		}
	}
}

// WithGapThreshold sets the fraction of gapped window games above which a
// snapshot is flagged low-confidence.
func WithGapThreshold(threshold float64) Option {
	return func(c *Calculator) {
		if threshold >= 0 && threshold <= 1 {
			c.gapThreshold = threshold
		}
	}
}

// WithBaseline sets the league-average values used for neutral snapshots.
func WithBaseline(b Baseline) Option {
	return func(c *Calculator) {
		c.baseline = b
	}
}
