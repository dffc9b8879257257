package validation

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-layout/internal/schemas"
	"github.com/jonathan/resume-layout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `{
	"personalInfo": {"name": "Ada Lovelace", "email": "ada@example.com"},
	"summary": "Engineer",
	"experience": [{"id": "exp-1", "role": "Engineer", "company": "Acme", "description": ["Built it"]}],
	"customSections": [{"id": "custom-1", "type": "projects", "title": "Projects", "items": [{"id": "p-1"}]}],
	"layout": {"left": ["experience", "custom-1"], "right": ["summary"]}
}`

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument([]byte(validDocument))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", doc.PersonalInfo.Name)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, []string{"Built it"}, doc.Experience[0].Description)
	assert.Equal(t, types.DesignConfig{}, doc.Design, "design is stored as given")
}

func TestDecodeDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "not JSON", input: "Ada Lovelace\nEngineer", wantMsg: "expected a JSON document"},
		{name: "JSON scalar", input: `"just a string"`, wantMsg: "expected a JSON document"},
		{name: "schema mismatch", input: `{"summary": 42}`, wantMsg: "does not match schema"},
		{name: "bad email", input: `{"personalInfo": {"email": "nope"}}`, wantMsg: "invalid document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeDocument([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var vErr *Error
			assert.True(t, errors.As(err, &vErr))
		})
	}
}

func TestDecodeDocument_AcceptsReencodedDocument(t *testing.T) {
	for _, input := range []string{
		`{"summary": "Engineer", "layout": {"left": ["summary"]}}`,
		`{}`,
		validDocument,
	} {
		doc, err := DecodeDocument([]byte(input))
		require.NoError(t, err)

		data, err := json.Marshal(doc)
		require.NoError(t, err)

		again, err := DecodeDocument(data)
		require.NoError(t, err, "re-encoded document: %s", data)
		assert.Equal(t, doc, again)
	}
}

func TestDecodeDocument_AcceptsNullLists(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{
		"experience": [{"id": "exp-1", "description": null}],
		"education": null,
		"skillCategories": [{"id": "sk-1", "skills": null}],
		"certifications": null,
		"achievements": null,
		"customSections": [{"id": "custom-1", "type": "projects", "items": null}]
	}`))
	require.NoError(t, err)
	require.Len(t, doc.Experience, 1)
	assert.Nil(t, doc.Experience[0].Description)
	assert.Nil(t, doc.Education)
}

func TestDecodeDocument_SchemaErrorIsWrapped(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"customSections": [{"id": "c", "type": "hobbies"}]}`))
	require.Error(t, err)

	var schemaErr *schemas.ValidationError
	require.True(t, errors.As(err, &schemaErr))
	assert.NotEmpty(t, schemaErr.Errors)
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(validDocument), 0644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", doc.Summary)

	_, err = LoadDocument(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	var readErr *FileReadError
	assert.True(t, errors.As(err, &readErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckStruct(t *testing.T) {
	assert.NoError(t, CheckStruct(&types.ResumeDocument{}), "zero design is normalized before checking")
	assert.Error(t, CheckStruct(nil))

	doc := &types.ResumeDocument{Certifications: []types.Certification{{ID: "c", URL: "::"}}}
	assert.Error(t, CheckStruct(doc))
}
