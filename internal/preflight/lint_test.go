package preflight

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLintIssues(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   []string
	}{
		{
			name:   "empty output",
			stdout: "",
			want:   []string{},
		},
		{
			name: "keeps error and warning lines case-insensitively",
			stdout: "Checked 1 file\n" +
				"src/app.ts:3:7 ERROR no-unused-vars 'x' is unused\n" +
				"src/app.ts:9:1 Warning prefer-const\n" +
				"✔ No issues in other files\n",
			want: []string{
				"src/app.ts:3:7 ERROR no-unused-vars 'x' is unused",
				"src/app.ts:9:1 Warning prefer-const",
			},
		},
		{
			name:   "trims and skips blank lines",
			stdout: "\n   \n\t  src/app.ts:1:1 error semi  \n\n",
			want:   []string{"src/app.ts:1:1 error semi"},
		},
		{
			name:   "substring match counts",
			stdout: "3 errors found\nno-warnings-here rule\n",
			want:   []string{"3 errors found", "no-warnings-here rule"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLintIssues(tt.stdout, 10)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLintIssues_CapsAtLimit(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "src/app.ts:%d:1 error rule-%d\n", i, i)
	}

	got := ParseLintIssues(b.String(), 10)

	assert.Len(t, got, 10)
	assert.Equal(t, "src/app.ts:1:1 error rule-1", got[0])
	assert.Equal(t, "src/app.ts:10:1 error rule-10", got[9])
}

func TestLintTarget(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	tests := []struct {
		name string
		file string
		want string
	}{
		{"inside root", filepath.Join(root, "src", "app.ts"), filepath.Join("src", "app.ts")},
		{"at root", filepath.Join(root, "index.ts"), "index.ts"},
		{"outside root", filepath.Join(outside, "x.ts"), filepath.Join(outside, "x.ts")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LintTarget(root, tt.file))
		})
	}
}

func TestLintTarget_NameStartingWithDots_IsInside(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, "..hidden.ts", LintTarget(root, filepath.Join(root, "..hidden.ts")))
}
