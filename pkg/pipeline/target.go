package pipeline

import (
	"strings"

	"github.com/matzehuels/blobgeom/pkg/errors"
)

// Target names an animatable option.
type Target int

// Animatable options.
const (
	TargetDissolve Target = iota
	TargetCloseness
	TargetOuterOffset
	TargetRoundness
	TargetInwardShift
)

var targetNames = [...]string{
	TargetDissolve:    "dissolve",
	TargetCloseness:   "closeness",
	TargetOuterOffset: "outer-offset",
	TargetRoundness:   "roundness",
	TargetInwardShift: "inward-shift",
}

// Targets lists the names accepted by ParseTarget.
func Targets() []string { return targetNames[:] }

func (t Target) String() string {
	if t < 0 || int(t) >= len(targetNames) {
		return "unknown"
	}
	return targetNames[t]
}

// ParseTarget resolves a target name, case-insensitively.
func ParseTarget(name string) (Target, error) {
	for i, n := range targetNames {
		if strings.EqualFold(name, n) {
			return Target(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidParams,
		"unknown animation target %q (valid: %s)", name, strings.Join(targetNames[:], ", "))
}

// Set assigns v to the option named by t. All targets take values in [0, 1].
func (o *Options) Set(t Target, v float64) error {
	if err := errors.ValidateUnit(t.String(), v); err != nil {
		return err
	}
	switch t {
	case TargetDissolve:
		o.Dissolve = v
	case TargetCloseness:
		o.Cluster.Closeness = v
	case TargetOuterOffset:
		o.Star.OuterOffsetRatio = v
	case TargetRoundness:
		o.Star.Roundness = v
	case TargetInwardShift:
		o.Cluster.InwardShift = v
	default:
		return errors.New(errors.ErrCodeInvalidParams, "unknown animation target %d", int(t))
	}
	return nil
}
