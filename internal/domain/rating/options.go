package rating

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithBaseRating sets the rating assigned to unseen teams.
func WithBaseRating(base float64) Option {
	return func(e *Engine) {
		if base > 0 {
			e.base = base
		}
	}
}

// WithKFactor sets the fixed rating step constant.
func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.k = k
		}
	}
}

// WithHomeAdvantage sets the home-field rating offset used for expectancy.
func WithHomeAdvantage(offset float64) Option {
	return func(e *Engine) {
		if offset >= 0 {
			e.homeAdvantage = offset
		}
	}
}

// WithCarryoverFraction sets the share of rating deviation kept across a
// season boundary.
func WithCarryoverFraction(fraction float64) Option {
	return func(e *Engine) {
		if fraction >= 0 && fraction <= 1 {
			e.carryover = fraction
		}
	}
}

// WithMarginScale sets the log-scale factor of the margin multiplier.
func WithMarginScale(scale float64) Option {
	return func(e *Engine) {
		if scale > 0 {
			e.marginScale = scale
		}
	}
}

// WithMultiplierCap caps the margin multiplier.
func WithMultiplierCap(cap float64) Option {
	return func(e *Engine) {
		if cap > 0 {
			e.multiplierCap = cap
		}
	}
}

// WithUpsetBonus sets the extra multiplier applied when the pre-game
// lower-rated team wins.
func WithUpsetBonus(bonus float64) Option {
	return func(e *Engine) {
		if bonus >= 1 {
			e.upsetBonus = bonus
		}
	}
}
