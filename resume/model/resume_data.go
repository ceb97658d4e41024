package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned when a payload is valid JSON but not an object.
var ErrNotObject = errors.New("resume payload must be a JSON object")

// ResumeData holds the free-form fields drawn onto the resume canvas.
// Every field is optional and defaults to "".
type ResumeData struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Summary    string `json:"summary"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Education  string `json:"education"`

	// HasName reports whether the payload carried a "name" key at all.
	HasName bool `json:"-"`
}

// Section is a labeled block of body text.
type Section struct {
	Title string
	Body  string
}

// Sections returns the labeled body sections in drawing order.
func (d ResumeData) Sections() []Section {
	return []Section{
		{Title: "Professional Summary", Body: d.Summary},
		{Title: "Skills", Body: d.Skills},
		{Title: "Work Experience", Body: d.Experience},
		{Title: "Education", Body: d.Education},
	}
}

// UnmarshalJSON accepts any JSON object. Values that are not strings are
// treated as empty; unknown keys are ignored.
func (d *ResumeData) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}

	out := ResumeData{}
	_, out.HasName = fields["name"]
	targets := map[string]*string{
		"name":       &out.Name,
		"email":      &out.Email,
		"phone":      &out.Phone,
		"summary":    &out.Summary,
		"skills":     &out.Skills,
		"experience": &out.Experience,
		"education":  &out.Education,
	}
	for key, dst := range targets {
		val, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(val, &s); err == nil {
			*dst = s
		}
	}
	*d = out
	return nil
}

// Decode parses a request body into ResumeData.
func Decode(raw []byte) (ResumeData, error) {
	var d ResumeData
	if err := json.Unmarshal(raw, &d); err != nil {
		return ResumeData{}, fmt.Errorf("decode resume data: %w", err)
	}
	return d, nil
}
