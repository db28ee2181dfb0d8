package animation

import (
	"math"

	"github.com/matzehuels/slidemotion/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	DefaultDamping   = 10.0
	DefaultMass      = 1.0
	DefaultStiffness = 100.0

	// settleThreshold is the distance from rest below which a spring counts
	// as settled.
	settleThreshold = 0.001
)

// Spring is a damped harmonic oscillator released from 0 toward 1 with no
// initial velocity.
type Spring struct {
	Damping   float64 `json:"damping" toml:"damping"`
	Mass      float64 `json:"mass" toml:"mass"`
	Stiffness float64 `json:"stiffness" toml:"stiffness"`

	// OvershootClamping stops the spring at 1 instead of letting it
	// oscillate past the target.
	OvershootClamping bool `json:"overshoot_clamping,omitempty" toml:"overshoot_clamping"`
}

// DefaultSpring returns the default spring.
func DefaultSpring() Spring {
	return Spring{Damping: DefaultDamping, Mass: DefaultMass, Stiffness: DefaultStiffness}
}

// SetDefaults fills zero fields with defaults.
func (s *Spring) SetDefaults() {
	if s.Damping == 0 {
		s.Damping = DefaultDamping
	}
	if s.Mass == 0 {
		s.Mass = DefaultMass
	}
	if s.Stiffness == 0 {
		s.Stiffness = DefaultStiffness
	}
}

// Validate checks that the spring constants are physical.
func (s Spring) Validate() error {
	if s.Damping < 0 || s.Mass <= 0 || s.Stiffness <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"spring needs damping >= 0, mass > 0 and stiffness > 0 (got %g/%g/%g)", s.Damping, s.Mass, s.Stiffness)
	}
	return nil
}

func (s Spring) omega() float64 { return math.Sqrt(s.Stiffness / s.Mass) }

func (s Spring) zeta() float64 { return s.Damping / (2 * math.Sqrt(s.Stiffness*s.Mass)) }

// Progress returns the spring position t seconds after release. It is 0 for
// t <= 0 and tends to 1.
func (s Spring) Progress(t float64) float64 {
	if t <= 0 {
		return 0
	}
	w0, z := s.omega(), s.zeta()

	var x float64
	switch {
	case z < 1:
		wd := w0 * math.Sqrt(1-z*z)
		env := math.Exp(-z * w0 * t)
		x = 1 - env*(math.Cos(wd*t)+(z*w0/wd)*math.Sin(wd*t))
	case z == 1:
		x = 1 - math.Exp(-w0*t)*(1+w0*t)
	default:
		d := w0 * math.Sqrt(z*z-1)
		r1, r2 := -z*w0+d, -z*w0-d
		x = 1 - (r2*math.Exp(r1*t)-r1*math.Exp(r2*t))/(r2-r1)
	}

	if s.OvershootClamping && x > 1 {
		return 1
	}
	return x
}

// SettleSeconds returns how long the spring takes until its envelope stays
// within the settle threshold of rest.
func (s Spring) SettleSeconds() float64 {
	w0, z := s.omega(), s.zeta()
	rate := z * w0
	switch {
	case z == 0:
		return math.Inf(1)
	case z > 1:
		rate = w0 * (z - math.Sqrt(z*z-1))
	}
	// The critically damped and overdamped forms carry a polynomial factor;
	// doubling the envelope bound covers it for practical constants.
	bound := math.Log(1/settleThreshold) / rate
	if z >= 1 {
		bound *= 2
	}
	return bound
}
