package alignment

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// criticalField reports whether an unverifiable value for this field should
// be treated as a likely hallucination. Party and customer names qualify.
func criticalField(field string) bool {
	f := Normalize(field)
	return strings.Contains(f, "name")
}

// partialMatchEligible reports whether the fuzzy window match may be used
// for this field. Only names and locations tolerate OCR character noise
// without changing meaning.
func partialMatchEligible(field string) bool {
	f := Normalize(field)
	return strings.Contains(f, "name") ||
		strings.Contains(f, "location") ||
		strings.Contains(f, "city") ||
		strings.Contains(f, "origin") ||
		strings.Contains(f, "destination") ||
		strings.Contains(f, "address")
}

// dateField reports whether the field holds a date value.
func dateField(field string) bool {
	return strings.Contains(Normalize(field), "date")
}

// VerifyField checks that value is substantiated by the recognized text.
func VerifyField(field, value, recognizedText string) FieldResult {
	res := FieldResult{Field: field, Value: value, Confidence: ConfidenceNone}
	if value == "" {
		return res
	}

	if dateField(field) {
		if d, ok := parseLooseDate(value); ok {
			res.FoundInOCR, res.Confidence = verifyDateInText(d, recognizedText)
			return res
		}
		// Unparseable date values fall through to string matching.
	}

	nv := Normalize(value)
	nt := Normalize(recognizedText)
	if nv == "" || nt == "" {
		return res
	}

	if strings.Contains(nt, nv) {
		res.FoundInOCR = true
		res.Confidence = ConfidenceHigh
		return res
	}

	words := strings.Fields(nv)
	if len(words) > 1 {
		if tokenOverlap(words, strings.Fields(nt)) >= 0.6 {
			res.FoundInOCR = true
			res.Confidence = ConfidenceMedium
			return res
		}
	}

	if partialMatchEligible(field) && charOverlapWindow(nv, nt) >= 0.8 {
		res.FoundInOCR = true
		res.Confidence = ConfidenceLow
	}
	return res
}

// VerifyExtraction runs VerifyField over every non-empty entity and reduces
// the results into an overall confidence. A critical field that cannot be
// verified adds a hallucination warning and caps the overall confidence at
// 0.5.
func VerifyExtraction(entities map[string]string, recognizedText string) VerificationResult {
	var res VerificationResult

	fields := make([]string, 0, len(entities))
	for f, v := range entities {
		if v != "" {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)

	criticalMiss := false
	highCount := 0
	for _, f := range fields {
		fr := VerifyField(f, entities[f], recognizedText)
		res.Fields = append(res.Fields, fr)
		res.TotalCount++
		if fr.FoundInOCR {
			res.VerifiedCount++
			if fr.Confidence == ConfidenceHigh {
				highCount++
			}
			continue
		}
		if criticalField(f) {
			criticalMiss = true
			res.HallucinationWarnings = append(res.HallucinationWarnings,
				fmt.Sprintf("field %q value %q not found in document text; possible hallucination", f, entities[f]))
		}
	}

	if res.TotalCount == 0 {
		res.OverallConfidence = 0
		return res
	}
	conf := float64(res.VerifiedCount) / float64(res.TotalCount)
	if res.VerifiedCount > 0 && float64(highCount)/float64(res.VerifiedCount) >= 0.7 {
		conf += 0.1
	}
	if conf > 1 {
		conf = 1
	}
	if criticalMiss && conf > 0.5 {
		conf = 0.5
	}
	res.OverallConfidence = conf
	return res
}

// verifyDateInText checks whether d appears in text under any common
// rendering, falling back to loose token presence.
func verifyDateInText(d time.Time, text string) (bool, Confidence) {
	nt := Normalize(text)
	for _, rep := range dateRepresentations(d) {
		if strings.Contains(nt, Normalize(rep)) {
			return true, ConfidenceHigh
		}
	}

	tokens := strings.Fields(nt)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	hasTok := func(alts ...string) bool {
		for _, a := range alts {
			if _, ok := set[a]; ok {
				return true
			}
		}
		return false
	}

	day := hasTok(fmt.Sprintf("%d", d.Day()), fmt.Sprintf("%02d", d.Day()))
	month := hasTok(
		strings.ToLower(d.Month().String()),
		strings.ToLower(d.Format("Jan")),
		fmt.Sprintf("%d", int(d.Month())),
		fmt.Sprintf("%02d", int(d.Month())),
	)
	year := hasTok(fmt.Sprintf("%d", d.Year()))

	switch {
	case day && month && year:
		return true, ConfidenceMedium
	case day && month:
		return true, ConfidenceLow
	}
	return false, ConfidenceNone
}
