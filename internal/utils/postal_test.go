package utils

/*

go test -run 'TestSanitizeDigits|TestValidatePostalCode' -v ./internal/utils -count=1

*/

import "testing"

func TestSanitizeDigits(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"100-0001", "1000001"},
		{"〒100-0001", "1000001"},
		{"１００ー０００１", "1000001"},
		{" 03 1234 5678 ", "0312345678"},
		{"abc", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeDigits(tc.in); got != tc.want {
			t.Fatalf("in=%q want=%q got=%q", tc.in, tc.want, got)
		}
	}
}

func TestValidatePostalCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"1000001", true}, {"0600000", true},
		{"100001", false}, {"10000011", false}, {"100-001", false}, {"", false},
	}
	for _, tc := range cases {
		if got := ValidatePostalCode(tc.code); got != tc.want {
			t.Fatalf("code=%q want=%v got=%v", tc.code, tc.want, got)
		}
	}
}
