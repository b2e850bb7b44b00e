package validator

import (
	"testing"

	"inventory/internal/schema"
)

func TestIsDottedQuad(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"10.0.0.1", true},
		{"255.255.255.255", true},
		{"10.0.0", false},
		{"10.0.0.256", false},
		{"::ffff:10.0.0.1", false},
		{"host.example.com", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsDottedQuad(tc.in); got != tc.want {
			t.Errorf("IsDottedQuad(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIPv4NumberOrdersByValue(t *testing.T) {
	a, _ := IPv4Number("10.0.0.2")
	b, _ := IPv4Number("10.0.0.10")
	c, _ := IPv4Number("10.0.0.100")
	if !(a < b && b < c) {
		t.Errorf("expected 10.0.0.2 < 10.0.0.10 < 10.0.0.100, got %d %d %d", a, b, c)
	}

	top, ok := IPv4Number("255.255.255.255")
	if !ok || top != 4294967295 {
		t.Errorf("expected 4294967295, got %d (ok=%v)", top, ok)
	}

	if _, ok := IPv4Number("nope"); ok {
		t.Error("expected invalid address to fail")
	}
}

func TestCheckFormat(t *testing.T) {
	if msg := CheckFormat(schema.FormatIPv4, "192.168.1.20"); msg != "" {
		t.Errorf("expected valid address, got %q", msg)
	}
	if msg := CheckFormat(schema.FormatIPv4, "192.168.1"); msg == "" {
		t.Error("expected an error message for a three-octet address")
	}
	if msg := CheckFormat(schema.FormatNone, "anything"); msg != "" {
		t.Errorf("expected no constraint, got %q", msg)
	}
}

func TestCheckOption(t *testing.T) {
	f := schema.Field{Key: "status", Kind: schema.KindSelect, Options: []string{"active", "inactive"}}
	if msg := CheckOption(f, "active"); msg != "" {
		t.Errorf("expected active to pass, got %q", msg)
	}
	if msg := CheckOption(f, "paused"); msg == "" {
		t.Error("expected paused to be rejected")
	}
}
