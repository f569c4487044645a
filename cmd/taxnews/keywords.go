// cmd/taxnews/keywords.go
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// TagRule maps one tag label to its keyword set. Tag rules are evaluated
// in declaration order; the order decides which tags win when more than
// MaxTagsPerItem would match.
type TagRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// KeywordConfig holds the classification vocabulary. It is data, not
// logic: the compiled-in defaults below can be replaced wholesale by a
// YAML file without touching the classifier.
type KeywordConfig struct {
	High     []string  `yaml:"high"`
	Medium   []string  `yaml:"medium"`
	Breaking []string  `yaml:"breaking"`
	Tags     []TagRule `yaml:"tags"`
}

// LoadKeywords reads the keyword vocabulary from a YAML file. A missing
// file is not an error: the built-in Greek defaults apply.
func LoadKeywords(path string) (*KeywordConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		Logger().Info("No keyword file at %s, using built-in vocabulary", path)
		return DefaultKeywords(), nil
	}
	if err != nil {
		return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("failed to read keywords file %s", path), err)
	}

	var kc KeywordConfig
	if err := yaml.Unmarshal(data, &kc); err != nil {
		return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("failed to parse keywords file %s", path), err)
	}
	if err := kc.validate(); err != nil {
		return nil, err
	}
	return &kc, nil
}

func (kc *KeywordConfig) validate() error {
	if len(kc.High) == 0 && len(kc.Medium) == 0 {
		return NewConfigError(ErrConfigValidation, "keyword config defines no priority keywords", nil)
	}
	seen := make(map[string]bool, len(kc.Tags))
	for _, rule := range kc.Tags {
		if rule.Tag == "" {
			return NewConfigError(ErrConfigValidation, "tag rule missing label", nil)
		}
		if seen[rule.Tag] {
			return NewConfigError(ErrConfigValidation, fmt.Sprintf("duplicate tag rule %q", rule.Tag), nil)
		}
		if len(rule.Keywords) == 0 {
			return NewConfigError(ErrConfigValidation, fmt.Sprintf("tag rule %q has no keywords", rule.Tag), nil)
		}
		seen[rule.Tag] = true
	}
	return nil
}

// DefaultKeywords returns the built-in Greek business/tax vocabulary.
// Matching is case- and accent-insensitive, so the entries here are
// written in everyday accented form.
func DefaultKeywords() *KeywordConfig {
	return &KeywordConfig{
		High: []string{
			"έκτακτο", "επείγον", "προθεσμία", "λήγει", "εκπνέει",
			"πρόστιμο", "πρόστιμα", "κατάσχεση", "αναδρομικά",
			"ρύθμιση οφειλών", "τελευταία ευκαιρία",
		},
		Medium: []string{
			"φπα", "φορολογία", "φορολογικό", "εφορία", "ααδε",
			"δήλωση", "δηλώσεις", "εισφορές", "εφκα", "mydata",
			"ενφια", "επίδομα", "νομοσχέδιο", "εγκύκλιος", "απόφαση",
		},
		Breaking: []string{
			"έκτακτο", "έκτακτη είδηση", "τελευταία στιγμή",
			"μόλις τώρα", "αποκλειστικό",
		},
		Tags: []TagRule{
			{Tag: "φορολογικά", Keywords: []string{"φόρος", "φόροι", "φορολογία", "φορολογικό", "εφορία", "ααδε", "δήλωση"}},
			{Tag: "φπα", Keywords: []string{"φπα"}},
			{Tag: "ασφαλιστικά", Keywords: []string{"εφκα", "εισφορές", "ασφάλιση", "σύνταξη", "συνταξιούχοι"}},
			{Tag: "εργασιακά", Keywords: []string{"εργασία", "εργαζόμενοι", "μισθός", "κατώτατος", "απασχόληση", "υπερωρίες"}},
			{Tag: "mydata", Keywords: []string{"mydata", "ηλεκτρονικά βιβλία", "ηλεκτρονική τιμολόγηση"}},
			{Tag: "ακίνητα", Keywords: []string{"ενφια", "ακίνητο", "ακίνητα", "μισθώσεις", "αντικειμενικές αξίες"}},
			{Tag: "επιδόματα", Keywords: []string{"επίδομα", "επιδόματα", "ενίσχυση", "αποζημίωση"}},
			{Tag: "επιχειρήσεις", Keywords: []string{"επιχείρηση", "επιχειρήσεις", "εταιρεία", "εταιρείες", "γεμη"}},
		},
	}
}
