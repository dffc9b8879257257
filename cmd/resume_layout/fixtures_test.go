package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDocument = "testdata/resume.json"

// longDocument returns a resume whose experience section needs several pages.
func longDocument(entries int) string {
	bullet := fmt.Sprintf("%q", strings.Repeat("x", 200))
	bullets := strings.TrimSuffix(strings.Repeat(bullet+",", 5), ",")

	var sb strings.Builder
	sb.WriteString(`{"summary": "Engineer", "experience": [`)
	for i := range entries {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id": "exp-%d", "role": "Engineer", "company": "Co %d", "description": [%s]}`, i, i, bullets)
	}
	sb.WriteString("]}")
	return sb.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
