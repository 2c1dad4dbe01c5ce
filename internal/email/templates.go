package email

import (
	"fmt"
	"html"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

// BuildTrackingEmailBody builds the HTML body for the order confirmation email
func BuildTrackingEmailBody(customerName, trackingID, trackingURL string) string {
	content := fmt.Sprintf(`<h1 style="color: #16a34a; margin-top: 0; font-size: 24px;">Order Confirmed!</h1>
		<p>Hi %s,</p>
		<p>Thank you for your order. We have received it and will start processing it right away.</p>
		%s
		<p>You can follow your order at any time:</p>
		%s`,
		html.EscapeString(customerName),
		trackingIDBlock(trackingID),
		trackButton(trackingURL),
	)
	return layout("Order Confirmed", content)
}

// BuildStatusUpdateBody builds the HTML body for a status update email
func BuildStatusUpdateBody(customerName, trackingID string, info order.StatusInfo, trackingURL string) string {
	eta := ""
	if info.EstimatedDays > 0 {
		eta = fmt.Sprintf(`<p style="font-size: 14px; color: #666;">Next step expected within %d day(s).</p>`, info.EstimatedDays)
	}

	content := fmt.Sprintf(`<h1 style="color: #2563eb; margin-top: 0; font-size: 24px;">%s</h1>
		<p>Hi %s,</p>
		<p>%s.</p>
		%s
		%s
		%s`,
		html.EscapeString(info.Label),
		html.EscapeString(customerName),
		html.EscapeString(info.Description),
		eta,
		trackingIDBlock(trackingID),
		trackButton(trackingURL),
	)
	return layout(info.Label, content)
}

func trackingIDBlock(trackingID string) string {
	return fmt.Sprintf(`<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Tracking ID</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>`, html.EscapeString(trackingID))
}

func trackButton(trackingURL string) string {
	return fmt.Sprintf(`<p style="text-align: center; margin: 30px 0;">
			<a href="%s" style="background: #2563eb; color: white; padding: 12px 24px; border-radius: 5px; text-decoration: none;">Track your order</a>
		</p>
		<p style="font-size: 12px; color: #999; word-break: break-all;">%s</p>`,
		html.EscapeString(trackingURL), html.EscapeString(trackingURL))
}

func layout(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>%s</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-radius: 10px;">
		%s

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This email was sent automatically. Please contact support if you have any questions about your order.
		</p>
	</div>
</body>
</html>`, html.EscapeString(title), content)
}
