package email

import (
	"fmt"
	"html"
	"strings"

	"saveit/internal/config"
	"saveit/internal/models"
)

// maxListedLinks caps how many links a shared-collection email lists.
const maxListedLinks = 25

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #0f766e; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .muted { color: #6b7280; font-size: 13px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

func linkLabel(l *models.Link) string {
	if l.Title != "" {
		return l.Title
	}
	return l.URL
}

// CollectionShared generates the email sent when a user shares folders and
// links with someone.
func (t *Templates) CollectionShared(sender *models.User, payload *models.SharedPayload, shareURL string) (subject, htmlBody, textBody string) {
	who := sender.DisplayName()
	subject = fmt.Sprintf("[%s] %s shared %s with you", t.cfg.SiteTitle, who, describe(payload))

	var h, txt strings.Builder

	if len(payload.Folders) > 0 {
		h.WriteString(`<div class="info-box"><p><strong>Folders</strong></p><ul>`)
		txt.WriteString("Folders:\n")
		for _, f := range payload.Folders {
			fmt.Fprintf(&h, `<li>%s <span class="muted">(%d links)</span></li>`, html.EscapeString(f.Name), len(f.LinkIDs))
			fmt.Fprintf(&txt, "  - %s (%d links)\n", f.Name, len(f.LinkIDs))
		}
		h.WriteString(`</ul></div>`)
		txt.WriteString("\n")
	}

	if len(payload.Links) > 0 {
		h.WriteString(`<div class="info-box"><p><strong>Links</strong></p><ul>`)
		txt.WriteString("Links:\n")
		for i := range payload.Links {
			if i == maxListedLinks {
				more := len(payload.Links) - maxListedLinks
				fmt.Fprintf(&h, `<li class="muted">and %d more</li>`, more)
				fmt.Fprintf(&txt, "  ... and %d more\n", more)
				break
			}
			l := &payload.Links[i]
			fmt.Fprintf(&h, `<li><a href="%s">%s</a></li>`, html.EscapeString(l.URL), html.EscapeString(linkLabel(l)))
			fmt.Fprintf(&txt, "  - %s\n    %s\n", linkLabel(l), l.URL)
		}
		h.WriteString(`</ul></div>`)
		txt.WriteString("\n")
	}

	content := fmt.Sprintf(`
        <p><strong>%s</strong> shared part of their collection with you.</p>
        %s
        <p style="text-align: center;">
            <a href="%s" class="button">Open collection</a>
        </p>
        <p class="muted">Sign in to save these links to your own collection.</p>
    `,
		html.EscapeString(who),
		h.String(),
		html.EscapeString(shareURL),
	)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`%s shared part of their collection with you.

%sOpen it at: %s

--
%s
%s`,
		who,
		txt.String(),
		shareURL,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// describe summarizes a payload as "2 folders and 3 links".
func describe(p *models.SharedPayload) string {
	var parts []string
	if n := len(p.Folders); n > 0 {
		parts = append(parts, plural(n, "folder"))
	}
	if n := len(p.Links); n > 0 {
		parts = append(parts, plural(n, "link"))
	}
	if len(parts) == 0 {
		return "a collection"
	}
	return strings.Join(parts, " and ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
