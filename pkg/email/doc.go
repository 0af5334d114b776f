// Package email delivers notification messages through SMTP, Postmark,
// AWS SES or a local directory.
//
// All providers share the Sender interface and the Message type. New picks
// the provider from Config:
//
//	var cfg email.Config
//	config.MustLoad(&cfg)
//	sender, err := email.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	err = sender.Send(ctx, email.Message{
//		From:    cfg.User,
//		To:      cfg.Recipient,
//		Subject: "Hello",
//		Text:    "Hello there",
//	})
//
// SMTP endpoints are resolved from EMAIL_SERVICE (gmail, outlook, zoho and
// other well-known names) or set directly with SMTP_HOST and SMTP_PORT.
package email
