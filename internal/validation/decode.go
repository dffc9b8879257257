// Package validation checks resume documents and their pagination for layout problems.
package validation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jonathan/resume-layout/internal/schemas"
	"github.com/jonathan/resume-layout/internal/types"
)

// LoadDocument reads a resume document file and decodes it with DecodeDocument.
func LoadDocument(path string) (*types.ResumeDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return DecodeDocument(data)
}

// DecodeDocument checks that data is JSON, validates it against the resume
// document schema and the struct rules, and decodes it. Zero design values
// are accepted and take their defaults.
func DecodeDocument(data []byte) (*types.ResumeDocument, error) {
	if mt := mimetype.Detect(data); !mt.Is("application/json") {
		return nil, &Error{Message: fmt.Sprintf("expected a JSON document, got %s", mt.String())}
	}

	if err := schemas.ValidateDocument(data); err != nil {
		return nil, &Error{Message: "document does not match schema", Cause: err}
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Message: "failed to decode document", Cause: err}
	}

	if err := CheckStruct(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CheckStruct runs the struct validation rules on a copy of the document
// with its design normalized.
func CheckStruct(doc *types.ResumeDocument) error {
	if doc == nil {
		return &Error{Message: "document is nil"}
	}
	check := doc.Clone()
	check.Design = check.Design.Normalized()
	if err := check.Validate(); err != nil {
		return &Error{Message: "invalid document", Cause: err}
	}
	return nil
}
