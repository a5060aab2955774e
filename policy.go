package shroud

import "reflect"

// Policy lets a type declare its sensitive fields in code instead of tags.
// Keys are Go field names, including names promoted from embedded structs.
// A descriptor returned here replaces any tag on the same field.
//
//	func (User) SensitiveFields() map[string]shroud.Descriptor {
//	    return map[string]shroud.Descriptor{
//	        "Email": shroud.MustDescriptor(shroud.MaskEmail, shroud.AllowRoles("ROLE_SUPPORT")),
//	    }
//	}
//
// SensitiveFields is called once per type on a zero value, so it must not
// depend on the receiver's contents.
type Policy interface {
	SensitiveFields() map[string]Descriptor
}

var policyType = reflect.TypeFor[Policy]()

// policyFor returns the descriptors declared by t's Policy implementation.
// Both value and pointer receivers are honored.
func policyFor(t reflect.Type) map[string]Descriptor {
	if !t.Implements(policyType) && !reflect.PointerTo(t).Implements(policyType) {
		return nil
	}
	p, ok := reflect.New(t).Interface().(Policy)
	if !ok {
		return nil
	}
	return p.SensitiveFields()
}
