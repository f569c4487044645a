package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadKeywordsMissingFileUsesDefaults(t *testing.T) {
	kc, err := LoadKeywords(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	def := DefaultKeywords()
	if len(kc.High) != len(def.High) || len(kc.Tags) != len(def.Tags) {
		t.Error("expected the built-in vocabulary")
	}
}

func TestLoadKeywordsFromFile(t *testing.T) {
	path := writeTempFile(t, "keywords.yml", `
high: [πρόστιμο]
medium: [φπα]
breaking: [έκτακτο]
tags:
  - tag: πρώτο
    keywords: [ένα]
  - tag: δεύτερο
    keywords: [δύο]
`)

	kc, err := LoadKeywords(path)
	if err != nil {
		t.Fatalf("LoadKeywords() error: %v", err)
	}
	if len(kc.High) != 1 || kc.High[0] != "πρόστιμο" {
		t.Errorf("unexpected high keywords: %v", kc.High)
	}
	// YAML declaration order carries through to tag precedence
	if kc.Tags[0].Tag != "πρώτο" || kc.Tags[1].Tag != "δεύτερο" {
		t.Errorf("tag order not preserved: %v", kc.Tags)
	}
}

func TestLoadKeywordsRejectsDuplicateTags(t *testing.T) {
	path := writeTempFile(t, "keywords.yml", `
high: [πρόστιμο]
tags:
  - tag: διπλό
    keywords: [α]
  - tag: διπλό
    keywords: [β]
`)
	if _, err := LoadKeywords(path); err == nil {
		t.Fatal("expected error for duplicate tag rules")
	}
}

func TestLoadKeywordsRejectsEmptyTagRule(t *testing.T) {
	path := writeTempFile(t, "keywords.yml", `
high: [πρόστιμο]
tags:
  - tag: άδειο
    keywords: []
`)
	if _, err := LoadKeywords(path); err == nil {
		t.Fatal("expected error for a tag rule with no keywords")
	}
}

func TestLoadKeywordsRejectsEmptyVocabulary(t *testing.T) {
	path := writeTempFile(t, "keywords.yml", `
breaking: [έκτακτο]
`)
	if _, err := LoadKeywords(path); err == nil {
		t.Fatal("expected error when no priority keywords are defined")
	}
}

func TestLoadKeywordsRejectsMalformedYAML(t *testing.T) {
	path := writeTempFile(t, "keywords.yml", "high: [unclosed")
	if _, err := LoadKeywords(path); err == nil {
		t.Fatal("expected parse error")
	}
}
