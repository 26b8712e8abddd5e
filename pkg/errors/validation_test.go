package errors

import (
	"math"
	"testing"
)

func TestValidateRatio(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"middle", 0.3, false},

		{"negative", -0.1, true},
		{"above one", 1.0001, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRatio("merged_max_ratio", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRatio(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateRatio(%v) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"nil", nil, false},
		{"single", []string{"Class"}, false},
		{"several", []string{"Class", "Age", "Sex"}, false},

		{"empty name", []string{"Class", ""}, true},
		{"duplicate", []string{"Age", "Class", "Age"}, true},
		{"control char", []string{"Ag\x01e"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"relative", "data/titanic.csv", false},
		{"absolute", "/tmp/titanic.json", false},
		{"filename only", "rows.csv", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"mongodb", "mongodb://localhost:27017", false},
		{"mongodb srv", "mongodb+srv://cluster.example.com", false},

		{"empty", "", true},
		{"http", "http://localhost", true},
		{"no scheme", "localhost:27017", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURI(tt.input, "mongodb", "mongodb+srv")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidDataset,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
