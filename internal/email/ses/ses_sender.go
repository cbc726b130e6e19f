package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"claimos/internal/domain"
	"claimos/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendClaimConfirmation(ctx context.Context, toEmail, toName string, claim *domain.Claim) error {
	subject := fmt.Sprintf("Claim %s submitted", claim.ClaimNumber)
	htmlBody := buildConfirmationHTML(toName, claim)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nYour claim has been submitted.\n\nClaim number: %s\nCoverage: %s\nClaimed amount: %.2f\nSubmitted at: %s\n\nKeep the claim number for future correspondence.\n\nClaims Team",
		toName, claim.ClaimNumber, strings.Join(claim.CoverageTypeIDs, ", "),
		claim.ClaimedAmount, claim.SubmittedAt.Format("2 Jan 2006 15:04 MST"),
	)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildConfirmationHTML(name string, claim *domain.Claim) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Claim submitted</h2>
  <p>Hi %s,</p>
  <p>Your claim has been submitted and is now being reviewed.</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 6px 12px; color: #666;">Claim number</td><td style="padding: 6px 12px; font-weight: bold;">%s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Coverage</td><td style="padding: 6px 12px;">%s</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Claimed amount</td><td style="padding: 6px 12px;">%.2f</td></tr>
    <tr><td style="padding: 6px 12px; color: #666;">Submitted at</td><td style="padding: 6px 12px;">%s</td></tr>
  </table>
  <p style="color: #999; font-size: 12px;">Keep the claim number for future correspondence.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">ClaimOS - Claim Intake Platform</p>
</body>
</html>`, name, claim.ClaimNumber, strings.Join(claim.CoverageTypeIDs, ", "),
		claim.ClaimedAmount, claim.SubmittedAt.Format("2 Jan 2006 15:04 MST"))
}
