package services

import (
	"bytes"
	"embed"
	"html/template"
	"net/url"

	"github.com/rpupo63/portfolio-backend/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type contactNotificationData struct {
	models.Message
	ReplyLink template.URL
}

type socialLink struct {
	Label string
	URL   string
}

type autoReplyData struct {
	Name       string
	OwnerName  string
	OwnerTitle string
	Links      []socialLink
}

// RenderContactNotification builds the admin alert for a new message.
// All user-supplied fields are HTML-escaped by the template.
func RenderContactNotification(m models.Message) (string, error) {
	return render("contact_notification.html", contactNotificationData{
		Message:   m,
		ReplyLink: replyLink(m),
	})
}

// replyLink is a mailto link answering m. The address is escaped so it can
// only name the recipient, never add headers.
func replyLink(m models.Message) template.URL {
	reply := url.URL{
		Scheme:   "mailto",
		Opaque:   url.PathEscape(m.Email),
		RawQuery: url.Values{"subject": {"Re: " + m.Subject}}.Encode(),
	}
	return template.URL(reply.String())
}

// RenderAutoReply builds the thank-you email sent to the submitter.
func RenderAutoReply(name string, profile models.Settings) (string, error) {
	var links []socialLink
	for _, l := range []socialLink{
		{"GitHub", profile.SocialLinks.Github},
		{"LinkedIn", profile.SocialLinks.Linkedin},
		{"Twitter", profile.SocialLinks.Twitter},
		{"Instagram", profile.SocialLinks.Instagram},
		{"YouTube", profile.SocialLinks.Youtube},
	} {
		if l.URL != "" {
			links = append(links, l)
		}
	}

	return render("auto_reply.html", autoReplyData{
		Name:       name,
		OwnerName:  profile.OwnerName,
		OwnerTitle: profile.Title,
		Links:      links,
	})
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
