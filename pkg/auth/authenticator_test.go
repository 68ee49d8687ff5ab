package auth

import "testing"

func TestIsAuthorized(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []int64
		userID   int64
		expected bool
	}{
		{"empty allowlist admits anyone", nil, 42, true},
		{"listed user", []int64{1, 42}, 42, true},
		{"unlisted user", []int64{1, 2}, 42, false},
	}

	for _, test := range tests {
		if got := NewAuthenticator(test.allowed).IsAuthorized(test.userID); got != test.expected {
			t.Errorf("%s: IsAuthorized(%d) = %v, want %v", test.name, test.userID, got, test.expected)
		}
	}
}
