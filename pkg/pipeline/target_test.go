package pipeline

import (
	"testing"

	"github.com/matzehuels/blobgeom/pkg/errors"
)

func TestParseTarget(t *testing.T) {
	for _, name := range Targets() {
		tgt, err := ParseTarget(name)
		if err != nil {
			t.Fatalf("ParseTarget(%q): %v", name, err)
		}
		if tgt.String() != name {
			t.Errorf("round trip %q -> %q", name, tgt.String())
		}
	}
	if tgt, err := ParseTarget("Closeness"); err != nil || tgt != TargetCloseness {
		t.Errorf(`ParseTarget("Closeness") = %v, %v`, tgt, err)
	}
	if _, err := ParseTarget("radius"); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("unknown target error = %v, want INVALID_PARAMS", err)
	}
}

func TestOptionsSet(t *testing.T) {
	tests := []struct {
		target Target
		get    func(Options) float64
	}{
		{TargetDissolve, func(o Options) float64 { return o.Dissolve }},
		{TargetCloseness, func(o Options) float64 { return o.Cluster.Closeness }},
		{TargetOuterOffset, func(o Options) float64 { return o.Star.OuterOffsetRatio }},
		{TargetRoundness, func(o Options) float64 { return o.Star.Roundness }},
		{TargetInwardShift, func(o Options) float64 { return o.Cluster.InwardShift }},
	}
	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			var o Options
			if err := o.Set(tt.target, 0.3); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if got := tt.get(o); got != 0.3 {
				t.Errorf("value = %v, want 0.3", got)
			}
			if err := o.Set(tt.target, 1.5); !errors.Is(err, errors.ErrCodeInvalidParams) {
				t.Errorf("out of range error = %v, want INVALID_PARAMS", err)
			}
		})
	}
}
