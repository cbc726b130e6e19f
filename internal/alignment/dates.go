package alignment

import (
	"fmt"
	"strings"
	"time"
)

// looseDateLayouts are the layouts parseLooseDate accepts, most specific
// first.
var looseDateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
}

// parseLooseDate parses the date formats commonly produced by extraction
// models.
func parseLooseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseEntityDate parses a date string produced by the extraction model.
func ParseEntityDate(s string) (time.Time, bool) {
	return parseLooseDate(s)
}

// ordinalDay renders day numbers as 1st, 2nd, 3rd, 4th and so on.
func ordinalDay(day int) string {
	suffix := "th"
	if day%100 < 11 || day%100 > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// dateRepresentations renders d in the textual forms documents commonly
// carry. Matching against all of them makes verbatim date verification
// insensitive to regional formatting.
func dateRepresentations(d time.Time) []string {
	ord := ordinalDay(d.Day())
	return []string{
		d.Format("2006-01-02"),
		d.Format("2006/01/02"),
		d.Format("02/01/2006"),
		d.Format("01/02/2006"),
		d.Format("2/1/2006"),
		d.Format("1/2/2006"),
		d.Format("02-01-2006"),
		d.Format("01-02-2006"),
		d.Format("January 2, 2006"),
		d.Format("January 02, 2006"),
		d.Format("Jan 2, 2006"),
		d.Format("Jan 02, 2006"),
		d.Format("2 January 2006"),
		d.Format("02 January 2006"),
		d.Format("2 Jan 2006"),
		d.Format("02 Jan 2006"),
		fmt.Sprintf("%s %s %d", ord, d.Month().String(), d.Year()),
		fmt.Sprintf("%s %s, %d", d.Month().String(), ord, d.Year()),
	}
}

// DateCategory selects the tolerance window used when comparing a document
// date with the incident date.
type DateCategory int

const (
	// DateCategoryDefault covers document types with no tighter rule.
	DateCategoryDefault DateCategory = iota
	// DateCategoryIncident covers incident and property reports, which
	// must be contemporaneous with the incident.
	DateCategoryIncident
	// DateCategoryBooking covers tickets and bookings, which are routinely
	// issued long before travel.
	DateCategoryBooking
	// DateCategoryReceipt covers medical records and purchase receipts.
	DateCategoryReceipt
)

// CategorizeDocumentDate maps a detected document type onto its date
// tolerance category.
func CategorizeDocumentDate(documentType string) DateCategory {
	t := Normalize(documentType)
	switch {
	case strings.Contains(t, "incident") || strings.Contains(t, "police") ||
		strings.Contains(t, "property") || strings.Contains(t, "fir") ||
		strings.Contains(t, "accident report"):
		return DateCategoryIncident
	case strings.Contains(t, "booking") || strings.Contains(t, "ticket") ||
		strings.Contains(t, "itinerary") || strings.Contains(t, "boarding") ||
		strings.Contains(t, "reservation"):
		return DateCategoryBooking
	case strings.Contains(t, "medical") || strings.Contains(t, "receipt") ||
		strings.Contains(t, "invoice") || strings.Contains(t, "bill") ||
		strings.Contains(t, "prescription") || strings.Contains(t, "hospital"):
		return DateCategoryReceipt
	}
	return DateCategoryDefault
}

// window returns the allowed [min, max] day offsets of the document date
// relative to the incident date.
func (c DateCategory) window() (minDays, maxDays int) {
	switch c {
	case DateCategoryIncident:
		return -1, 1
	case DateCategoryBooking:
		return -365, 7
	case DateCategoryReceipt:
		return -1, 7
	default:
		return -3, 7
	}
}

// CheckDateAlignment compares a document date against the incident date
// using the tolerance window for the document's category. The delta is
// measured in whole calendar days, document minus incident.
func CheckDateAlignment(category DateCategory, incidentDate, documentDate time.Time) DateAlignment {
	id := incidentDate.Truncate(24 * time.Hour)
	dd := documentDate.Truncate(24 * time.Hour)
	delta := int(dd.Sub(id).Hours() / 24)

	minDays, maxDays := category.window()
	if delta >= minDays && delta <= maxDays {
		return DateAlignment{Aligned: true, DeltaDays: delta}
	}

	var msg string
	if delta > 0 {
		msg = fmt.Sprintf("document is dated %d day(s) after the incident date; allowed window is %d to %d day(s)", delta, minDays, maxDays)
	} else {
		msg = fmt.Sprintf("document is dated %d day(s) before the incident date; allowed window is %d to %d day(s)", -delta, minDays, maxDays)
	}
	return DateAlignment{Aligned: false, DeltaDays: delta, Message: msg}
}
