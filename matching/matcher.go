package matching

import (
	"log/slog"
	"sort"

	"github.com/bradsommer/list-validator/schema"
)

// MatchThreshold is the minimum fuzzy similarity for a header to be
// considered matched. Results below it are still reported as suggestions
// but do not claim the field.
const MatchThreshold = 0.4

// tieDelta is the score window within which two fuzzy candidates are treated
// as a near-tie and resolved by object-type priority instead of raw score.
const tieDelta = 0.05

// HeaderMatch is the binding decision for one spreadsheet column.
type HeaderMatch struct {
	Header     string        `json:"header"`
	Field      *schema.Field `json:"field,omitempty"`
	Confidence float64       `json:"confidence"`
	Matched    bool          `json:"matched"`
}

// FieldID returns the matched field id, or "" when nothing was claimed.
func (m HeaderMatch) FieldID() string {
	if m.Field == nil {
		return ""
	}
	return m.Field.ID
}

// Override is a caller-curated binding from a header to a specific field.
// Overrides are absolute: they win over both exact and fuzzy matching.
// When several overrides exist for the same header (for example an admin
// override and a user's manual remap), callers list them in precedence
// order and the first claimable one wins.
type Override struct {
	Header     string            `json:"header" yaml:"header"`
	FieldID    string            `json:"field_id" yaml:"field_id"`
	ObjectType schema.ObjectType `json:"object_type" yaml:"object_type"`
}

// Matcher maps raw spreadsheet headers to schema fields.
type Matcher struct {
	threshold float64
	logger    *slog.Logger
}

// NewMatcher creates a matcher with the default threshold.
func NewMatcher() *Matcher {
	return &Matcher{
		threshold: MatchThreshold,
		logger:    slog.Default().With("component", "header_matcher"),
	}
}

// Match produces one HeaderMatch per input header, in input order.
// Matching runs in three passes (overrides, exact variant, fuzzy); each pass
// only considers headers left unmatched by prior passes, and every claimed
// field is removed from the candidate pool so no two headers can bind the
// same (field id, object type) pair.
func (m *Matcher) Match(headers []string, catalog *schema.Catalog, overrides []Override) []HeaderMatch {
	results := make([]HeaderMatch, len(headers))
	for i, h := range headers {
		results[i] = HeaderMatch{Header: h}
	}

	claimed := make(map[schema.FieldKey]bool)
	fields := catalog.Fields()

	m.applyOverrides(results, fields, overrides, claimed)
	m.applyExact(results, fields, claimed)
	m.applyFuzzy(results, fields, claimed)

	matchedCount := 0
	for _, r := range results {
		if r.Matched {
			matchedCount++
		}
	}
	m.logger.Debug("Header matching complete",
		"headers", len(headers),
		"matched", matchedCount)

	return results
}

// applyOverrides binds caller-supplied header mappings directly, provided the
// referenced field is in the catalog and still unclaimed.
func (m *Matcher) applyOverrides(results []HeaderMatch, fields []schema.Field, overrides []Override, claimed map[schema.FieldKey]bool) {
	if len(overrides) == 0 {
		return
	}

	for i := range results {
		header := NormalizeKey(results[i].Header)
		for _, ov := range overrides {
			if NormalizeKey(ov.Header) != header {
				continue
			}
			field, ok := m.findField(fields, ov.FieldID, ov.ObjectType)
			if !ok || claimed[field.Key()] {
				continue
			}
			f := field
			results[i].Field = &f
			results[i].Confidence = 1.0
			results[i].Matched = true
			claimed[field.Key()] = true
			break
		}
	}
}

// applyExact matches normalized headers against normalized field variants by
// string equality. Same-text collisions across object types resolve by the
// contact > company > deal priority.
func (m *Matcher) applyExact(results []HeaderMatch, fields []schema.Field, claimed map[schema.FieldKey]bool) {
	// Normalized variant text -> candidate fields carrying it.
	variantIndex := make(map[string][]schema.Field)
	for _, f := range fields {
		seen := make(map[string]bool)
		for _, v := range append([]string{f.ID, f.Label}, f.Variants...) {
			key := NormalizeKey(v)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			variantIndex[key] = append(variantIndex[key], f)
		}
	}

	for i := range results {
		if results[i].Matched {
			continue
		}
		candidates := variantIndex[NormalizeKey(results[i].Header)]
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].ObjectType.Priority() < candidates[b].ObjectType.Priority()
		})
		for _, c := range candidates {
			if claimed[c.Key()] {
				continue
			}
			f := c
			results[i].Field = &f
			results[i].Confidence = 1.0
			results[i].Matched = true
			claimed[c.Key()] = true
			break
		}
	}
}

// applyFuzzy scores remaining headers against every unclaimed field's
// variants and accepts the best candidate, resolving near-ties by object-type
// priority. Low-score candidates are still reported as suggestions but are
// not marked matched and do not claim the field.
func (m *Matcher) applyFuzzy(results []HeaderMatch, fields []schema.Field, claimed map[schema.FieldKey]bool) {
	for i := range results {
		if results[i].Matched {
			continue
		}
		header := NormalizeKey(results[i].Header)
		if header == "" {
			continue
		}

		type candidate struct {
			field schema.Field
			score float64
		}
		var candidates []candidate
		bestScore := 0.0
		for _, f := range fields {
			if claimed[f.Key()] {
				continue
			}
			score := m.fieldScore(header, f)
			if score <= 0 {
				continue
			}
			candidates = append(candidates, candidate{field: f, score: score})
			if score > bestScore {
				bestScore = score
			}
		}
		if len(candidates) == 0 {
			continue
		}

		// Near-ties within tieDelta of the best score resolve by object-type
		// priority rather than raw score.
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.score < bestScore-tieDelta {
				continue
			}
			if best.score < bestScore-tieDelta ||
				c.field.ObjectType.Priority() < best.field.ObjectType.Priority() ||
				(c.field.ObjectType.Priority() == best.field.ObjectType.Priority() && c.score > best.score) {
				best = c
			}
		}

		f := best.field
		results[i].Field = &f
		results[i].Confidence = best.score
		if best.score >= m.threshold {
			results[i].Matched = true
			claimed[f.Key()] = true
		}
	}
}

// fieldScore is the best similarity between a normalized header and any of
// the field's normalized variants.
func (m *Matcher) fieldScore(header string, f schema.Field) float64 {
	best := 0.0
	for _, v := range append([]string{f.ID, f.Label}, f.Variants...) {
		key := NormalizeKey(v)
		if key == "" {
			continue
		}
		if s := Similarity(header, key); s > best {
			best = s
		}
	}
	return best
}

func (m *Matcher) findField(fields []schema.Field, id string, objectType schema.ObjectType) (schema.Field, bool) {
	for _, f := range fields {
		if f.ID != id {
			continue
		}
		if objectType == "" || f.ObjectType == objectType {
			return f, true
		}
	}
	return schema.Field{}, false
}
