package xml

import (
	"strings"
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
	if c.ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/xml")
	}
}

type testRecord struct {
	Name string `xml:"name"`
	IBAN string `xml:"iban"`
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()
	original := testRecord{Name: "test", IBAN: "DE89**************3000"}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if want := "<testRecord><name>test</name><iban>DE89**************3000</iban></testRecord>"; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var restored testRecord
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestMarshalIndentWithHeader(t *testing.T) {
	data, err := New(WithIndent("", "  "), WithHeader()).Marshal(testRecord{Name: "a", IBAN: "b"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	s := string(data)
	if !strings.HasPrefix(s, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<testRecord>\n  <name>a</name>") {
		t.Errorf("Marshal() = %q", s)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v testRecord
	if err := New().Unmarshal([]byte("<testRecord><name>"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
