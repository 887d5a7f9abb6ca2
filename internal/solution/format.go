// Package solution formats pushed solution files: repository path and the
// metadata header prepended to the code.
package solution

import (
	_ "embed"
	"fmt"
	"log"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var languagesYAML []byte

type languageEntry struct {
	Name      string `yaml:"name"`
	Extension string `yaml:"extension"`
	Comment   string `yaml:"comment"`
}

var languages = loadLanguages()

func loadLanguages() map[string]languageEntry {
	var table struct {
		Languages []languageEntry `yaml:"languages"`
	}
	if err := yaml.Unmarshal(languagesYAML, &table); err != nil {
		// The table is embedded; a parse failure is a build defect.
		log.Fatalf("parse languages.yaml: %v", err)
	}
	m := make(map[string]languageEntry, len(table.Languages))
	for _, entry := range table.Languages {
		m[entry.Name] = entry
	}
	return m
}

// Solution is one accepted submission to be committed.
type Solution struct {
	Title      string
	Number     int // 0 when unknown
	Difficulty string
	Language   string
	Code       string
	Runtime    string
	Memory     string
}

func (s Solution) language() languageEntry {
	if entry, ok := languages[strings.ToLower(s.Language)]; ok {
		return entry
	}
	// Unrecognized languages still get committed, as plain text.
	return languageEntry{Name: s.Language, Extension: "txt", Comment: "#"}
}

// FilePath returns `{language}/{number_}{Title_with_underscores}.{ext}`.
func (s Solution) FilePath() string {
	name := strings.ReplaceAll(strings.TrimSpace(s.Title), " ", "_")
	if s.Number > 0 {
		name = fmt.Sprintf("%d_%s", s.Number, name)
	}
	return fmt.Sprintf("%s/%s.%s", strings.ToLower(s.Language), name, s.language().Extension)
}

// Content returns the raw code prefixed with a metadata comment block.
// Empty metadata fields are omitted.
func (s Solution) Content() string {
	comment := s.language().Comment
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", comment, s.Title)
	if s.Difficulty != "" {
		fmt.Fprintf(&b, "%s Difficulty: %s\n", comment, s.Difficulty)
	}
	if s.Runtime != "" {
		fmt.Fprintf(&b, "%s Runtime: %s\n", comment, s.Runtime)
	}
	if s.Memory != "" {
		fmt.Fprintf(&b, "%s Memory: %s\n", comment, s.Memory)
	}
	b.WriteString("\n")
	b.WriteString(s.Code)
	if !strings.HasSuffix(s.Code, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
