package yaml

import (
	"testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/yaml")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `yaml:"name"`
		Email any    `yaml:"email"`
	}

	original := TestStruct{Name: "test", Email: "u**r@example.com"}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored TestStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored.Name != original.Name || restored.Email != original.Email {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestMarshalNil(t *testing.T) {
	data, err := New().Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if string(data) != "null\n" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null\n")
	}
}

func TestMarshalIndent(t *testing.T) {
	type Inner struct {
		Email string `yaml:"email"`
	}
	type Outer struct {
		Payment Inner `yaml:"payment"`
	}

	data, err := New(WithIndent(2)).Marshal(Outer{Payment: Inner{Email: "u**r@example.com"}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := "payment:\n  email: u**r@example.com\n"
	if string(data) != want {
		t.Errorf("Marshal() = %q, want %q", data, want)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v struct {
		Name string `yaml:"name"`
	}
	if err := New().Unmarshal([]byte("name: [invalid"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
