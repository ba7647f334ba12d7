package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// BookingEmailData carries what the confirmation email needs.
type BookingEmailData struct {
	ReferenceCode string
	HotelName     string
	CheckIn       string
	CheckOut      string
	Nights        int
}

// SendBookingConfirmationEmail sends a plain+HTML confirmation to the guest.
// When SMTP is not configured the send degrades to a mock log line so local
// development works without a mail relay.
func SendBookingConfirmationEmail(recipientEmail, guestName string, data BookingEmailData) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := EnvOrDefault("SMTP_FROM_NAME", "Cozy Hotel Bookings")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] to:%s booking:%s hotel:%s %s -> %s (%d nights)",
			MaskEmail(recipientEmail), data.ReferenceCode, data.HotelName, data.CheckIn, data.CheckOut, data.Nights)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	guestName = safe(guestName)
	hotelName := safe(data.HotelName)

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := fmt.Sprintf("Booking Confirmation - %s", data.ReferenceCode)
	boundary := "----=_COZY_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your reservation is confirmed. Here are the details:\n\n"+
			"Booking Reference: %s\n"+
			"Hotel: %s\n"+
			"Check-In: %s\n"+
			"Check-Out: %s\n"+
			"Nights: %d\n\n"+
			"You can review or cancel this booking from your dashboard.\n\n"+
			"Best regards,\n%s",
		guestName, data.ReferenceCode, hotelName, data.CheckIn, data.CheckOut, data.Nights, fromName,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Booking Confirmation</title></head>
<body style="background:#f5f7fb;font-family:Arial,Helvetica,sans-serif;color:#222;">
<div style="max-width:640px;margin:20px auto;background:#fff;border:1px solid #e6eef6;padding:24px;border-radius:8px;">
  <h2>Booking Confirmed</h2>
  <p>Dear %s,</p>
  <p>Your reservation at <strong>%s</strong> is confirmed.</p>
  <p><strong>Booking Reference:</strong> %s</p>
  <p><strong>Check-In:</strong> %s</p>
  <p><strong>Check-Out:</strong> %s</p>
  <p><strong>Nights:</strong> %d</p>
  <p>You can review or cancel this booking from your dashboard.</p>
  <p>Best regards,<br>%s</p>
</div>
</body>
</html>`,
		guestName, htmlEscape(hotelName), data.ReferenceCode, data.CheckIn, data.CheckOut, data.Nights, fromName,
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipientEmail))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(sb.String())); err != nil {
		log.Printf("failed to send confirmation email to %s: %v", MaskEmail(recipientEmail), err)
		return err
	}

	log.Printf("confirmation email sent to %s (booking %s)", MaskEmail(recipientEmail), data.ReferenceCode)
	return nil
}

// minimal html escaper for the small strings we use
func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
