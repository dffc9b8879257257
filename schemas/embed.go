// Package schemas embeds the JSON Schemas for resume documents and pagination results.
package schemas

import (
	"embed"
)

// Schema file names
const (
	ResumeDocumentFile = "resume_document.schema.json"
	PagesFile          = "pages.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the content of an embedded schema file.
func Load(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Names lists the embedded schema files.
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
