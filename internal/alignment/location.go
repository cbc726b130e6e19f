package alignment

import "strings"

// aliasGroups lists equivalent renderings of major travel hubs: IATA codes,
// city names, and common alternate spellings. Two locations that resolve to
// the same group are treated as the same place.
var aliasGroups = [][]string{
	{"BLR", "Bengaluru", "Bangalore"},
	{"DEL", "Delhi", "New Delhi"},
	{"BOM", "Mumbai", "Bombay"},
	{"MAA", "Chennai", "Madras"},
	{"HYD", "Hyderabad"},
	{"CCU", "Kolkata", "Calcutta"},
	{"COK", "Kochi", "Cochin"},
	{"GOI", "Goa", "Dabolim"},
	{"PNQ", "Pune"},
	{"AMD", "Ahmedabad"},
	{"JAI", "Jaipur"},
	{"LKO", "Lucknow"},
	{"TRV", "Thiruvananthapuram", "Trivandrum"},
	{"GAU", "Guwahati"},
	{"SXR", "Srinagar"},
	{"IXC", "Chandigarh"},
	{"DXB", "Dubai"},
	{"AUH", "Abu Dhabi"},
	{"DOH", "Doha"},
	{"JED", "Jeddah"},
	{"RUH", "Riyadh"},
	{"SIN", "Singapore", "Changi"},
	{"HKG", "Hong Kong"},
	{"BKK", "Bangkok", "Suvarnabhumi"},
	{"KUL", "Kuala Lumpur"},
	{"CGK", "Jakarta"},
	{"MNL", "Manila"},
	{"SGN", "Ho Chi Minh City", "Saigon"},
	{"HAN", "Hanoi"},
	{"KTM", "Kathmandu"},
	{"CMB", "Colombo"},
	{"DAC", "Dhaka"},
	{"KHI", "Karachi"},
	{"LHE", "Lahore"},
	{"ISB", "Islamabad"},
	{"NRT", "HND", "Tokyo", "Narita", "Haneda"},
	{"ICN", "Seoul", "Incheon"},
	{"PEK", "PKX", "Beijing"},
	{"PVG", "SHA", "Shanghai"},
	{"SYD", "Sydney"},
	{"MEL", "Melbourne"},
	{"AKL", "Auckland"},
	{"LHR", "LGW", "STN", "London", "Heathrow", "Gatwick"},
	{"CDG", "ORY", "Paris", "Charles de Gaulle"},
	{"FRA", "Frankfurt"},
	{"MUC", "Munich"},
	{"AMS", "Amsterdam", "Schiphol"},
	{"ZRH", "Zurich"},
	{"VIE", "Vienna"},
	{"IST", "Istanbul"},
	{"MAD", "Madrid"},
	{"BCN", "Barcelona"},
	{"FCO", "Rome", "Fiumicino"},
	{"MXP", "LIN", "Milan"},
	{"BRU", "Brussels"},
	{"CPH", "Copenhagen"},
	{"ARN", "Stockholm"},
	{"OSL", "Oslo"},
	{"HEL", "Helsinki"},
	{"ATH", "Athens"},
	{"LIS", "Lisbon"},
	{"DUB", "Dublin"},
	{"JFK", "LGA", "EWR", "New York", "Newark"},
	{"LAX", "Los Angeles"},
	{"SFO", "San Francisco"},
	{"ORD", "Chicago", "O'Hare"},
	{"MIA", "Miami"},
	{"SEA", "Seattle"},
	{"BOS", "Boston"},
	{"IAD", "DCA", "Washington"},
	{"YYZ", "Toronto"},
	{"YVR", "Vancouver"},
	{"MEX", "Mexico City"},
	{"GRU", "Sao Paulo"},
	{"EZE", "Buenos Aires"},
	{"CAI", "Cairo"},
	{"JNB", "Johannesburg"},
	{"NBO", "Nairobi"},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]int {
	idx := make(map[string]int)
	for i, group := range aliasGroups {
		for _, name := range group {
			idx[Normalize(name)] = i
		}
	}
	return idx
}

// aliasGroup returns the alias group for a normalized location, trying the
// whole string first and then its individual tokens so that strings like
// "bengaluru airport" still resolve.
func aliasGroup(normalized string) (int, bool) {
	if g, ok := aliasIndex[normalized]; ok {
		return g, true
	}
	for _, tok := range strings.Fields(normalized) {
		if g, ok := aliasIndex[tok]; ok {
			return g, true
		}
	}
	return 0, false
}

// MatchLocation semantically compares two location strings. It accepts
// exact and substring matches, then alias-table resolution, then a weak
// shared-word overlap.
func MatchLocation(a, b string) LocationMatch {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return LocationMatch{Matched: false, Confidence: ConfidenceNone, Reason: "location missing"}
	}

	if na == nb || strings.Contains(na, nb) || strings.Contains(nb, na) {
		return LocationMatch{Matched: true, Confidence: ConfidenceHigh, Reason: "exact"}
	}

	ga, aok := aliasGroup(na)
	gb, bok := aliasGroup(nb)
	if aok && bok && ga == gb {
		return LocationMatch{Matched: true, Confidence: ConfidenceMedium, Reason: "likely"}
	}

	ta, tb := strings.Fields(na), strings.Fields(nb)
	if tokenOverlap(ta, tb) >= 0.5 || tokenOverlap(tb, ta) >= 0.5 {
		return LocationMatch{Matched: true, Confidence: ConfidenceLow, Reason: "possible"}
	}

	return LocationMatch{Matched: false, Confidence: ConfidenceNone, Reason: "no match"}
}

// MatchRoute checks a claim location against a document that exposes an
// origin/destination pair instead of a single location. Matching either
// endpoint is enough.
func MatchRoute(claimLocation, origin, destination string) LocationMatch {
	if m := MatchLocation(claimLocation, origin); m.Matched {
		return m
	}
	return MatchLocation(claimLocation, destination)
}
