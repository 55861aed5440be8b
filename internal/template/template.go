// Package template resolves the sender identity and email body for a
// document and substitutes placeholders. Substitution is a literal,
// global, case-sensitive find-replace: no escaping, no recursion, and
// unrecognized {{...}} tokens pass through untouched. That behavior is
// part of the observable contract, so no templating engine is used here.
package template

import "strings"

const (
	TagDocumentTitle       = "{{document_title}}"
	TagDocumentDescription = "{{document_description}}"
	TagSenderName          = "{{sender_name}}"
	TagSenderEmail         = "{{sender_email}}"
)

// Values are the resolved replacements for the four recognized tags.
type Values struct {
	DocumentTitle       string
	DocumentDescription string
	SenderName          string
	SenderEmail         string
}

// Substitute replaces every occurrence of each recognized tag.
func Substitute(s string, v Values) string {
	s = strings.ReplaceAll(s, TagDocumentTitle, v.DocumentTitle)
	s = strings.ReplaceAll(s, TagDocumentDescription, v.DocumentDescription)
	s = strings.ReplaceAll(s, TagSenderName, v.SenderName)
	s = strings.ReplaceAll(s, TagSenderEmail, v.SenderEmail)
	return s
}

// DefaultSubject is used when a document has no template reference.
const DefaultSubject = "Your free resource: " + TagDocumentTitle

const defaultShellTop = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#0a0e1a;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
  <div style="max-width:600px;margin:0 auto;padding:40px 20px;">
    <div style="text-align:center;margin-bottom:32px;">
      <div style="display:inline-block;width:48px;height:48px;background:linear-gradient(135deg,#7c3aed,#5b21b6);border-radius:12px;line-height:48px;font-size:20px;font-weight:bold;color:white;">D</div>
      <p style="color:#a78bfa;font-size:11px;letter-spacing:2px;text-transform:uppercase;margin-top:12px;font-weight:600;">` + TagSenderName + `</p>
    </div>
    <div style="background-color:#111827;border:1px solid #2a2f3e;border-radius:16px;padding:40px 32px;text-align:center;">
      <h1 style="color:#ffffff;font-size:24px;font-weight:700;margin:0 0 8px;">Here's your document!</h1>
      <p style="color:#94a3b8;font-size:14px;margin:0 0 24px;line-height:1.6;">
        Thank you for your interest. Your requested document <strong style="color:#a78bfa;">"` + TagDocumentTitle + `"</strong> is attached to this email.
      </p>
`

const defaultShellDescription = `      <div style="background-color:#1a1f2e;border:1px solid #2a2f3e;border-radius:12px;padding:16px;margin-bottom:24px;text-align:left;">
        <p style="color:#94a3b8;font-size:13px;margin:0;line-height:1.6;">` + TagDocumentDescription + `</p>
      </div>
`

const defaultShellBottom = `      <div style="background:linear-gradient(135deg,#7c3aed15,#10b98115);border:1px solid #7c3aed30;border-radius:12px;padding:16px;margin-bottom:8px;">
        <p style="color:#10b981;font-size:14px;font-weight:600;margin:0 0 4px;">File attached below</p>
        <p style="color:#94a3b8;font-size:12px;margin:0;">Check the attachment to access your document</p>
      </div>
    </div>
    <div style="text-align:center;margin-top:32px;">
      <p style="color:#4a5568;font-size:12px;margin:0;">
        Sent by <span style="color:#a78bfa;">` + TagSenderName + `</span>
      </p>
      <p style="color:#374151;font-size:11px;margin-top:8px;">
        You received this because you requested a document from us.
      </p>
    </div>
  </div>
</body>
</html>`

// DefaultBody builds the built-in styled HTML shell. The description
// block only appears when a description exists.
func DefaultBody(hasDescription bool) string {
	if hasDescription {
		return defaultShellTop + defaultShellDescription + defaultShellBottom
	}
	return defaultShellTop + defaultShellBottom
}

const textShellTop = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>p{margin:0;}</style></head>
<body style="margin:0;padding:0;background-color:#f6f9fc;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
  <div style="max-width:600px;margin:0 auto;padding:40px 20px;">
    <div style="background-color:#ffffff;border:1px solid #e2e8f0;border-radius:12px;padding:32px;color:#1a202c;font-size:15px;line-height:1.7;">
`

const textShellBottom = `
    </div>
  </div>
</body></html>`

// WrapTextBody wraps a constrained rich-text fragment in the light outer
// email shell used for text-format templates.
func WrapTextBody(fragment string) string {
	return textShellTop + fragment + textShellBottom
}
