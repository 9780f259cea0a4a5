package errors

import (
	"math"
	"testing"
)

func TestValidateUnit(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"half", 0.5, false},
		{"one", 1, false},

		{"negative", -0.01, true},
		{"above one", 1.01, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnit("closeness", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUnit(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidParams) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidParams)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"small", 1e-6, false},
		{"large", 1e6, false},

		{"zero", 0, true},
		{"negative", -1, true},
		{"inf", math.Inf(1), true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("scale", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("density", 0); err != nil {
		t.Errorf("zero should be valid: %v", err)
	}
	if err := ValidateNonNegative("density", -0.5); err == nil {
		t.Error("negative should be rejected")
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("radius", 4, 8); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	if err := ValidateRange("radius", 4, 4); err != nil {
		t.Errorf("single point range rejected: %v", err)
	}
	if err := ValidateRange("radius", 8, 4); err == nil {
		t.Error("inverted range accepted")
	}
}

func TestValidateShape(t *testing.T) {
	tests := []struct {
		name    string
		x, y, r float64
		wantErr bool
	}{
		{"valid", 10, 20, 5, false},
		{"zero radius", 0, 0, 0, true},
		{"negative radius", 0, 0, -2, true},
		{"nan center", math.NaN(), 0, 2, true},
		{"inf center", 0, math.Inf(-1), 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShape(7, tt.x, tt.y, tt.r)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShape() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidShape) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidShape)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "scenes/two.toml", false},
		{"valid absolute", "/tmp/scene.json", false},

		{"empty", "", true},
		{"null byte", "scene\x00.toml", true},
		{"newline", "scene\n.toml", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("TOML", "toml", "json"); err != nil {
		t.Errorf("case-insensitive match failed: %v", err)
	}
	err := ValidateFormat("yaml", "toml", "json")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(yaml) = %v, want %v", err, ErrCodeInvalidFormat)
	}
}
