package cluster

import "github.com/matzehuels/blobgeom/pkg/errors"

// Params tunes the pair classification.
type Params struct {
	ConsiderConnectedLowerBound       float64 `json:"consider_connected" toml:"consider_connected"`
	GravitationForceVisibleLowerBound float64 `json:"gravitation_visible" toml:"gravitation_visible"`
	Closeness                         float64 `json:"closeness" toml:"closeness"`
	InwardShift                       float64 `json:"inward_shift" toml:"inward_shift"`
}

// DefaultParams returns the thresholds the engine ships with.
func DefaultParams() Params {
	return Params{
		ConsiderConnectedLowerBound:       0.75,
		GravitationForceVisibleLowerBound: 0.5,
		Closeness:                         0.5,
		InwardShift:                       0.5,
	}
}

// Validate checks that both thresholds lie in (0, 1] with the gravitation
// threshold not above the connection threshold, and that closeness and
// inward shift lie in [0, 1].
func (p Params) Validate() error {
	if p.ConsiderConnectedLowerBound <= 0 || p.ConsiderConnectedLowerBound > 1 {
		return errors.New(errors.ErrCodeInvalidParams,
			"consider_connected must be in (0, 1], got %v", p.ConsiderConnectedLowerBound)
	}
	if p.GravitationForceVisibleLowerBound <= 0 || p.GravitationForceVisibleLowerBound > p.ConsiderConnectedLowerBound {
		return errors.New(errors.ErrCodeInvalidParams,
			"gravitation_visible must be in (0, %v], got %v",
			p.ConsiderConnectedLowerBound, p.GravitationForceVisibleLowerBound)
	}
	if err := errors.ValidateUnit("closeness", p.Closeness); err != nil {
		return err
	}
	return errors.ValidateUnit("inward_shift", p.InwardShift)
}
