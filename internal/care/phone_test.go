package care

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "+919876543210", "+919876543210"},
		{"country code without plus", "919876543210", "+919876543210"},
		{"bare ten digits", "9876543210", "+919876543210"},
		{"spaces stripped", " 91 98765 43210 ", "+919876543210"},
		{"foreign number", "14155552671", "+14155552671"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
