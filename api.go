// Package shroud redacts sensitive struct fields at output boundaries.
//
// Fields are marked sensitive with a struct tag or a Policy. Each carries a
// Descriptor naming the masking algorithm, the characters it may reveal and
// the roles allowed to see the raw value.
//
// # Boundaries
//
// Two boundaries are covered:
//
//   - send: structured output through a Codec. Authorized principals see the
//     raw value, everyone else sees the masked form.
//   - log: arguments passed to a log call. Masking is unconditional.
//
// # Tag Syntax
//
//	sensitive:"{kind},first={n},last={n},char={c},roles={role}|{role}"
//
// Every part is optional; `sensitive:""` masks the whole value with '*'.
//
//	type Customer struct {
//	    ID    string `json:"id"`
//	    Email string `json:"email" sensitive:"email,roles=ROLE_SUPPORT"`
//	    Card  string `json:"card" sensitive:"credit_card"`
//	    Token string `json:"token" sensitive:"generic,first=4"`
//	}
//
// # Basic Usage
//
//	proc, _ := shroud.NewProcessor[Customer](json.New())
//
//	ctx = shroud.WithPrincipal(ctx, shroud.NewPrincipal("alice", "ROLE_SUPPORT"))
//	body, _ := proc.Send(ctx, &customer)
//
//	log.Printf("loaded %v", shroud.RedactArgs([]any{customer})...)
//
// Processors are safe for concurrent use. Use caches one per type and
// codec:
//
//	proc, err := shroud.Use[Customer](json.New())
//
// # Mask Kinds
//
//   - generic: secret → ******, or s****t with first=1,last=1
//   - email: user@example.com → u**r@example.com
//   - credit_card: 4111 1111 1111 1234 → ************1234
//   - phone_number: +1 (555) 123-4567 → 155******67
//   - iban: DE89 3704 0044 0532 0130 00 → DE89**************3000
//
// # Authorization
//
// An empty allow-list never bypasses masking, and neither does a missing or
// unauthenticated principal.
//
// # Codec Providers
//
// The following codec implementations are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//
// zapmask installs log redaction into zap loggers, and casbinroles expands
// principal roles through a casbin role graph.
package shroud

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
