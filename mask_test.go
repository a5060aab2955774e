package shroud

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMaskGeneric(t *testing.T) {
	tests := []struct {
		input     string
		showFirst int
		showLast  int
		maskChar  rune
		expected  string
	}{
		{"password", 0, 0, '*', "********"},
		{"SENSITIVE_DATA_123", 3, 0, '*', "SEN***************"},
		{"1234567890", 0, 4, '*', "******7890"},
		{"abcdef", 1, 1, '*', "a****f"},
		{"CUSTOM_MASK_CHAR_DATA", 0, 0, '#', "#####################"},
		{"abc", 2, 2, '*', "***"},   // Reveal exceeds length
		{"abcd", 2, 2, '*', "****"}, // Reveal equals length
		{"héllo", 1, 1, '*', "h***o"},
		{"abc", -1, 5, '*', "***"}, // Negative counts clamp
		{"x", 0, 0, '•', "•"},
	}

	for _, tt := range tests {
		result := Mask(MaskGeneric, tt.input, tt.showFirst, tt.showLast, tt.maskChar)
		if result != tt.expected {
			t.Errorf("Mask(generic, %q, %d, %d, %q) = %q, want %q",
				tt.input, tt.showFirst, tt.showLast, tt.maskChar, result, tt.expected)
		}
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user@example.com", "u**r@example.com"},
		{"john.doe@example.com", "j******e@example.com"},
		{"ab@x.io", "**@x.io"},
		{"a@b.com", "*@b.com"},
		{"a@b@c", "*@b@c"},               // Split on first @
		{"@example.com", "************"}, // @ at start
		{"noatsign", "********"},         // No @
	}

	for _, tt := range tests {
		result := Mask(MaskEmail, tt.input, 5, 5, '*')
		if result != tt.expected {
			t.Errorf("Mask(email, %q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestMaskCreditCard(t *testing.T) {
	tests := []struct {
		input    string
		maskChar rune
		expected string
	}{
		{"4111 1111 1111 1234", '*', "************1234"},
		{"4111111111111111", '*', "************1111"},
		{"4111-1111-1111-1111", '#', "############1111"},
		{"411111111111", '*', "********1111"}, // Exactly 12 digits
		{"1234-5678", '*', "*********"},       // Too short, masks original
	}

	for _, tt := range tests {
		result := Mask(MaskCreditCard, tt.input, 0, 0, tt.maskChar)
		if result != tt.expected {
			t.Errorf("Mask(credit_card, %q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestMaskPhoneNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+1 (555) 123-4567", "155******67"},
		{"12345678901", "123******01"},
		{"555-1234", "555**34"}, // Exactly 7 digits
		{"12-345", "******"},    // Too short, masks original
	}

	for _, tt := range tests {
		result := Mask(MaskPhoneNumber, tt.input, 0, 0, '*')
		if result != tt.expected {
			t.Errorf("Mask(phone_number, %q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestMaskIBAN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DE89 3704 0044 0532 0130 00", "DE89**************3000"},
		{"GB82WEST12345698765432", "GB82**************5432"},
		{"NL91-ABNA-0417", "NL91****0417"},
		{"DE-12", "*****"}, // Too short, masks original
	}

	for _, tt := range tests {
		result := Mask(MaskIBAN, tt.input, 0, 0, '*')
		if result != tt.expected {
			t.Errorf("Mask(iban, %q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestMask_UnknownKindMasksEverything(t *testing.T) {
	if got := Mask("ssn", "123-45-6789", 3, 3, '*'); got != "***********" {
		t.Errorf("Mask(ssn) = %q, want full mask", got)
	}
}

func TestMaskGeneric_RevealAtLeastLengthMasksAll(t *testing.T) {
	values := []string{"", "a", "ab", "secret", "pässwörd", "4111 1111"}

	for _, v := range values {
		n := utf8.RuneCountInString(v)
		for first := 0; first <= n+2; first++ {
			for last := 0; last <= n+2; last++ {
				if first+last < n {
					continue
				}
				got := Mask(MaskGeneric, v, first, last, '#')
				want := strings.Repeat("#", n)
				if got != want {
					t.Errorf("Mask(generic, %q, %d, %d) = %q, want %q", v, first, last, got, want)
				}
			}
		}
	}
}

func TestMask_Deterministic(t *testing.T) {
	for _, kind := range MaskKinds() {
		a := Mask(kind, "DE89 3704 0044 0532 0130 00", 2, 2, '*')
		b := Mask(kind, "DE89 3704 0044 0532 0130 00", 2, 2, '*')
		if a != b {
			t.Errorf("Mask(%s) not deterministic: %q != %q", kind, a, b)
		}
	}
}

func TestMask_NotIdempotent(t *testing.T) {
	tests := []struct {
		kind   MaskKind
		input  string
		first  string
		second string
	}{
		{MaskPhoneNumber, "+1 (555) 123-4567", "155******67", "***********"},
		{MaskCreditCard, "4111 1111 1111 1234", "************1234", "****************"},
		{MaskIBAN, "DE89 3704 0044 0532 0130 00", "DE89**************3000", "********"},
	}

	for _, tt := range tests {
		once := Mask(tt.kind, tt.input, 0, 0, '*')
		twice := Mask(tt.kind, once, 0, 0, '*')
		if once != tt.first {
			t.Errorf("Mask(%s, %q) = %q, want %q", tt.kind, tt.input, once, tt.first)
		}
		if twice != tt.second {
			t.Errorf("Mask(%s, %q) = %q, want %q", tt.kind, once, twice, tt.second)
		}
		if once == twice {
			t.Errorf("Mask(%s) expected re-application to change %q", tt.kind, once)
		}
	}
}
