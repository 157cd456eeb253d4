package utils

import "testing"

func TestNormalizeEmail(t *testing.T) {
	tests := []struct{ in, want string }{
		{"JOE@Example.COM", "joe@example.com"},
		{"  info@bakery.example.com ", "info@bakery.example.com"},
		{"not-an-email", ""},
		{"missing@tld", ""},
		{"two@@example.com", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct{ in, want string }{
		{"(555) 123-4567", "(555)123-4567"},
		{"+1 555.123.4567", "+15551234567"},
		{"call us!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsBusinessWebsite(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://joes-pizza.com", true},
		{"http://bakery.example.com/menu", true},
		{"https://www.facebook.com/joespizza", false},
		{"https://www.hotfrog.com/company/x", false},
		{"https://yelp.com/biz/x", false},
		{"joes-pizza.com", false}, // scheme required
		{"", false},
	}
	for _, tt := range tests {
		if got := IsBusinessWebsite(tt.url); got != tt.want {
			t.Fatalf("IsBusinessWebsite(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
