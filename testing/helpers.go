// Package testing provides fixtures for shroud tests.
package testing

import (
	"context"
	"testing"

	"github.com/zoobzio/shroud"
)

// Role identifiers used by the fixtures.
const (
	RoleSupport = "ROLE_SUPPORT"
	RoleFinance = "ROLE_FINANCE"
	RoleAdmin   = "ROLE_ADMIN"
)

// Raw and masked values of the NewCustomer fixture.
const (
	CustomerEmail = "alice@example.com"
	CustomerCard  = "4111 1111 1111 1234"
	CustomerPhone = "+1 (555) 123-4567"
	CustomerIBAN  = "DE89 3704 0044 0532 0130 00"

	MaskedEmail = "a***e@example.com"
	MaskedCard  = "************1234"
	MaskedPhone = "155******67"
	MaskedIBAN  = "DE89**************3000"
)

// SimpleUser is a test type with no sensitive fields.
type SimpleUser struct {
	ID   string `json:"id" yaml:"id" msgpack:"id" xml:"id" bson:"id"`
	Name string `json:"name" yaml:"name" msgpack:"name" xml:"name" bson:"name"`
}

// Customer carries one sensitive field of every structured kind, tagged for
// every supported codec.
type Customer struct {
	ID    string `json:"id" yaml:"id" msgpack:"id" xml:"id" bson:"id"`
	Name  string `json:"name" yaml:"name" msgpack:"name" xml:"name" bson:"name"`
	Email string `json:"email" yaml:"email" msgpack:"email" xml:"email" bson:"email" sensitive:"email,roles=ROLE_SUPPORT"`
	Card  string `json:"card" yaml:"card" msgpack:"card" xml:"card" bson:"card" sensitive:"credit_card"`
	Phone string `json:"phone" yaml:"phone" msgpack:"phone" xml:"phone" bson:"phone" sensitive:"phone_number,roles=ROLE_SUPPORT|ROLE_ADMIN"`
	IBAN  string `json:"iban" yaml:"iban" msgpack:"iban" xml:"iban" bson:"iban" sensitive:"iban,roles=ROLE_FINANCE"`
}

// NewCustomer returns a Customer populated with the Customer* constants.
func NewCustomer() *Customer {
	return &Customer{
		ID:    "c-100",
		Name:  "Alice",
		Email: CustomerEmail,
		Card:  CustomerCard,
		Phone: CustomerPhone,
		IBAN:  CustomerIBAN,
	}
}

// Invoice nests a Customer by value and by pointer.
type Invoice struct {
	Number  string    `json:"number" yaml:"number" msgpack:"number" xml:"number" bson:"number"`
	Billing Customer  `json:"billing" yaml:"billing" msgpack:"billing" xml:"billing" bson:"billing"`
	Payer   *Customer `json:"payer,omitempty" yaml:"payer,omitempty" msgpack:"payer,omitempty" xml:"payer,omitempty" bson:"payer,omitempty"`
}

// Anonymous returns the unauthenticated principal.
func Anonymous() shroud.Principal {
	return shroud.Principal{}
}

// Staff returns an authenticated principal holding roles.
func Staff(roles ...string) shroud.Principal {
	return shroud.NewPrincipal("staff-1", roles...)
}

// AuthContext returns a background context carrying an authenticated
// principal with roles.
func AuthContext(tb testing.TB, roles ...string) context.Context {
	tb.Helper()
	return shroud.WithPrincipal(context.Background(), Staff(roles...))
}
