// Package mailer provides the message types, template rendering, and
// transport contract for campaign email delivery.
//
// The package separates message composition from delivery:
//
//   - Email: a fully composed message (subject, headers, HTML + text
//     bodies, recipients).
//   - Renderer: converts markdown templates with YAML frontmatter into
//     HTML documents, with optional sanitization of untrusted content.
//   - Transport / Conn: the provider boundary. A Transport opens a
//     connection, the connection sends a whole batch in one
//     batch-atomic call, and the caller always closes it.
//
// Providers implement Transport; see the resend subpackage for the
// built-in Resend adapter:
//
//	transport := resend.New(resend.Config{
//		APIKey:      os.Getenv("RESEND_API_KEY"),
//		SenderEmail: "team@example.com",
//		SenderName:  "Team",
//	})
//
//	conn, err := transport.Open(ctx)
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	err = conn.SendBatch(ctx, messages)
package mailer
