package model

import (
	"errors"
	"testing"
)

func TestDecodeFullPayload(t *testing.T) {
	raw := []byte(`{"name":"Jane Doe","email":"jane@example.com","phone":"555-0100",
		"summary":"Builder","skills":"Go","experience":"Acme","education":"MIT","extra":"ignored"}`)

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := ResumeData{
		Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100",
		Summary: "Builder", Skills: "Go", Experience: "Acme", Education: "MIT",
		HasName: true,
	}
	if got != want {
		t.Fatalf("Decode = %+v, want %+v", got, want)
	}
}

func TestDecodeEmptyObject(t *testing.T) {
	got, err := Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != (ResumeData{}) {
		t.Fatalf("expected zero ResumeData, got %+v", got)
	}
	if got.HasName {
		t.Fatalf("expected HasName=false for absent name")
	}
}

func TestDecodeNonStringValuesRenderBlank(t *testing.T) {
	got, err := Decode([]byte(`{"name":null,"email":42,"skills":["go"],"summary":{"a":1}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "" || got.Email != "" || got.Skills != "" || got.Summary != "" {
		t.Fatalf("expected blanks, got %+v", got)
	}
	if !got.HasName {
		t.Fatalf("expected HasName=true when key present")
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "name=Jane"},
		{name: "array", raw: `["Jane"]`},
		{name: "null", raw: "null"},
		{name: "string", raw: `"Jane"`},
		{name: "empty", raw: ""},
		{name: "truncated", raw: `{"name":`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.raw)); err == nil {
				t.Fatalf("expected error for %q", tt.raw)
			}
		})
	}
	if _, err := Decode([]byte(`[1]`)); !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

func TestSectionsOrder(t *testing.T) {
	d := ResumeData{Summary: "s", Skills: "k", Experience: "e", Education: "d"}
	sections := d.Sections()
	titles := []string{"Professional Summary", "Skills", "Work Experience", "Education"}
	bodies := []string{"s", "k", "e", "d"}
	if len(sections) != len(titles) {
		t.Fatalf("expected %d sections, got %d", len(titles), len(sections))
	}
	for i, s := range sections {
		if s.Title != titles[i] || s.Body != bodies[i] {
			t.Fatalf("section %d = %+v", i, s)
		}
	}
}
