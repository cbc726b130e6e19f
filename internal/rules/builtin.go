package rules

import (
	"fmt"
	"strconv"
	"strings"

	"claimos/internal/alignment"
	"claimos/internal/domain"
)

// minCoveredDelayHours is the shortest flight delay the standard policy
// pays out for.
const minCoveredDelayHours = 3.0

// DefaultRules returns the built-in rule set for the standard travel
// coverage types.
func DefaultRules() []Rule {
	return []Rule{
		NewRule("baggage_required_docs", "Baggage loss supporting documents", "baggage_loss",
			func(in Input) Finding {
				return Finding{RequiredDocuments: []string{"flight_ticket", "property_irregularity_report"}}
			}),

		NewRule("flight_delay_required_docs", "Flight delay supporting documents", "flight_delay",
			func(in Input) Finding {
				return Finding{RequiredDocuments: []string{"flight_ticket"}}
			}),

		NewRule("flight_delay_minimum", "Minimum covered delay", "flight_delay",
			func(in Input) Finding {
				raw, ok := in.Answers["delay_hours"]
				if !ok || raw == "" {
					return Finding{NeedsInfo: true, Reason: "length of the delay is required to assess eligibility"}
				}
				hours, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
				if err != nil {
					return Finding{ValidationErrors: []domain.ValidationIssue{{
						Code: "invalid_delay_hours", Field: "delay_hours",
						Message: fmt.Sprintf("delay hours %q is not a number", raw),
					}}}
				}
				if hours < minCoveredDelayHours {
					return Finding{Ineligible: true,
						Reason: fmt.Sprintf("delays under %.0f hours are not covered", minCoveredDelayHours)}
				}
				return Finding{}
			}),

		NewRule("medical_required_docs", "Medical expense supporting documents", "medical_expense",
			func(in Input) Finding {
				return Finding{RequiredDocuments: []string{"medical_bill"}}
			}),

		NewRule("medical_minor_hides_diagnosis", "Minor expenses skip diagnosis detail", "medical_expense",
			func(in Input) Finding {
				amount, ok := alignment.ParseAmount(in.Answers["claimed_amount"])
				if ok && amount < 500 {
					return Finding{HiddenQuestionIDs: []string{"medical_diagnosis_details"}}
				}
				return Finding{}
			}),

		NewRule("theft_required_docs", "Theft supporting documents", "theft",
			func(in Input) Finding {
				return Finding{RequiredDocuments: []string{"police_report"}}
			}),

		NewRule("trip_cancellation_reason", "Covered cancellation reasons", "trip_cancellation",
			func(in Input) Finding {
				reason := alignment.Normalize(in.Answers["cancellation_reason"])
				if reason == "" {
					return Finding{}
				}
				if strings.Contains(reason, "change of mind") || strings.Contains(reason, "changed my mind") {
					return Finding{Ineligible: true, Reason: "cancellations due to a change of mind are not covered"}
				}
				return Finding{}
			}),

		NewRule("claimed_amount_positive", "Claimed amount must be positive", "",
			func(in Input) Finding {
				raw, ok := in.Answers["claimed_amount"]
				if !ok || raw == "" {
					return Finding{}
				}
				amount, parsed := alignment.ParseAmount(raw)
				if !parsed || amount <= 0 {
					return Finding{ValidationErrors: []domain.ValidationIssue{{
						Code: "invalid_claimed_amount", Field: "claimed_amount",
						Message: fmt.Sprintf("claimed amount %q is not a positive number", raw),
					}}}
				}
				return Finding{}
			}),
	}
}
