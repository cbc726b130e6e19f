package alignment

import "strings"

// MatchName compares a document name against the claimant name. Exact match,
// then matching first and last tokens, then 80% token overlap. The second
// return is false when either side is empty and the check is not possible.
func MatchName(claimantName, documentName string) (matched, checkable bool) {
	na, nb := Normalize(claimantName), Normalize(documentName)
	if na == "" || nb == "" {
		return false, false
	}
	if na == nb {
		return true, true
	}

	ta, tb := Tokens(na), Tokens(nb)
	if len(ta) >= 2 && len(tb) >= 2 &&
		ta[0] == tb[0] && ta[len(ta)-1] == tb[len(tb)-1] {
		return true, true
	}

	if tokenOverlap(ta, tb) >= 0.8 || tokenOverlap(tb, ta) >= 0.8 {
		return true, true
	}
	return false, true
}

// MatchDocumentType fuzzily compares a detected document type against an
// expected type: substring in either direction after normalization.
func MatchDocumentType(detected, expected string) bool {
	nd, ne := Normalize(detected), Normalize(expected)
	if nd == "" || ne == "" {
		return false
	}
	if nd == ne {
		return true
	}
	return strings.Contains(nd, ne) || strings.Contains(ne, nd)
}
