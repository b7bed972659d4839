package imaging

import (
	"errors"
	"testing"
)

func TestCheckDimensions(t *testing.T) {
	tests := []struct {
		name        string
		w, h        int
		allowLarger bool
		wantErr     error
		wantWarning bool
	}{
		{"small", 100, 100, false, nil, false},
		{"at normal limit", 500, 500, false, nil, true},
		{"too wide", 501, 10, false, ErrDimensionLimitExceeded, false},
		{"too tall", 10, 501, false, ErrDimensionLimitExceeded, false},
		{"large allowed", 1500, 800, true, nil, true},
		{"at large limit", 2000, 1, true, nil, false},
		{"over large limit", 2001, 1, true, ErrDimensionLimitExceeded, false},
		{"warning threshold is exclusive", 400, 250, false, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, err := CheckDimensions(tt.w, tt.h, tt.allowLarger)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := check.Warning != ""; got != tt.wantWarning {
				t.Errorf("warning: got %q, want present=%v", check.Warning, tt.wantWarning)
			}
			if check.MaxDims != MaxDims(tt.allowLarger) {
				t.Errorf("MaxDims: got %d", check.MaxDims)
			}
		})
	}
}

func TestCheckDimensions_Empty(t *testing.T) {
	if _, err := CheckDimensions(0, 10, false); err == nil {
		t.Error("expected error for zero width")
	}
}
