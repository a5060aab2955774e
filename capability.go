package shroud

import "strings"

// MaskKind selects the masking algorithm applied to a sensitive field.
// Use these constants in struct tags: `sensitive:"email"`
type MaskKind string

const (
	// MaskGeneric reveals ShowFirst leading and ShowLast trailing characters.
	MaskGeneric MaskKind = "generic"

	// MaskEmail reveals the first and last character of the local part and the domain.
	MaskEmail MaskKind = "email"

	// MaskCreditCard reveals the last 4 digits.
	MaskCreditCard MaskKind = "credit_card"

	// MaskPhoneNumber reveals the first 3 and last 2 digits.
	MaskPhoneNumber MaskKind = "phone_number"

	// MaskIBAN reveals the country code, check digits and the last 4 characters.
	MaskIBAN MaskKind = "iban"
)

// maskKinds lists every kind in declaration order.
var maskKinds = []MaskKind{
	MaskGeneric,
	MaskEmail,
	MaskCreditCard,
	MaskPhoneNumber,
	MaskIBAN,
}

// validMaskKinds contains all valid mask kinds for tag validation.
var validMaskKinds = map[MaskKind]bool{
	MaskGeneric:     true,
	MaskEmail:       true,
	MaskCreditCard:  true,
	MaskPhoneNumber: true,
	MaskIBAN:        true,
}

// IsValidMaskKind returns true if the kind is a known mask kind.
func IsValidMaskKind(kind MaskKind) bool {
	return validMaskKinds[kind]
}

// MaskKinds returns every supported kind in declaration order.
func MaskKinds() []MaskKind {
	out := make([]MaskKind, len(maskKinds))
	copy(out, maskKinds)
	return out
}

// ParseMaskKind resolves a kind name case-insensitively, so both
// "credit_card" and "CREDIT_CARD" are accepted.
func ParseMaskKind(name string) (MaskKind, error) {
	kind := MaskKind(strings.ToLower(strings.TrimSpace(name)))
	if !IsValidMaskKind(kind) {
		return "", newConfigError(ErrInvalidKind, "", "", name)
	}
	return kind, nil
}

// String returns the kind name.
func (k MaskKind) String() string {
	return string(k)
}
