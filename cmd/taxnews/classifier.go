// cmd/taxnews/classifier.go
package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Classifier derives priority, tags and the breaking flag from item
// text. It is a pure function of (title, summary): no network, no clock.
type Classifier struct {
	high     []string
	medium   []string
	breaking []string
	tags     []tagMatcher
}

type tagMatcher struct {
	tag      string
	keywords []string
}

// greekFolder strips combining marks after NFD decomposition, so that
// accented and unaccented Greek compare equal.
var greekFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeText lowercases, de-accents and sigma-folds text for
// matching. Keywords pass through the same function at build time, so
// both sides of every comparison share one canonical form.
func normalizeText(s string) string {
	folded, _, err := transform.String(greekFolder, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	// Final sigma matches its medial form
	return strings.ReplaceAll(folded, "ς", "σ")
}

func normalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if n := normalizeText(strings.TrimSpace(kw)); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// NewClassifier builds a classifier from a keyword vocabulary
func NewClassifier(kc *KeywordConfig) *Classifier {
	c := &Classifier{
		high:     normalizeAll(kc.High),
		medium:   normalizeAll(kc.Medium),
		breaking: normalizeAll(kc.Breaking),
	}
	for _, rule := range kc.Tags {
		c.tags = append(c.tags, tagMatcher{tag: rule.Tag, keywords: normalizeAll(rule.Keywords)})
	}
	return c
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Priority returns the computed priority for the given text. High
// keywords are checked before medium ones; first match wins, no match
// means low. The computed value always overrides the source's default
// priority hint.
func (c *Classifier) Priority(text string) Priority {
	t := normalizeText(text)
	if containsAny(t, c.high) {
		return PriorityHigh
	}
	if containsAny(t, c.medium) {
		return PriorityMedium
	}
	return PriorityLow
}

// IsBreaking reports whether the text contains a breaking-news keyword.
// Independent of the priority computation.
func (c *Classifier) IsBreaking(text string) bool {
	return containsAny(normalizeText(text), c.breaking)
}

// Tags returns up to MaxTagsPerItem tags for the text, in the fixed
// order the tag rules were declared.
func (c *Classifier) Tags(text string) []string {
	t := normalizeText(text)
	var tags []string
	for _, m := range c.tags {
		if containsAny(t, m.keywords) {
			tags = append(tags, m.tag)
			if len(tags) == MaxTagsPerItem {
				break
			}
		}
	}
	return tags
}

// Classify turns one raw feed entry into a classified NewsItem
func (c *Classifier) Classify(raw RawItem, src Source) NewsItem {
	text := raw.Title + " " + raw.Summary
	return NewsItem{
		ID:          raw.ID,
		Title:       raw.Title,
		Summary:     raw.Summary,
		Content:     raw.Content,
		SourceID:    src.ID,
		SourceName:  src.Name,
		Category:    src.Category,
		Priority:    c.Priority(text),
		Tags:        c.Tags(text),
		PublishedAt: raw.Published,
		URL:         raw.Link,
		Author:      raw.Author,
		IsBreaking:  c.IsBreaking(text),
	}
}
