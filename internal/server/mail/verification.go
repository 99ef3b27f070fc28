package mail

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"text/template"
	"time"
)

const verificationSubject = "Verify Your Email"

const verificationText = `
Hello{{if .Name}} {{.Name}}{{end}},

Verify your email address to complete the signup and sign in to your account.

{{.Link}}

This link expires in {{.ExpiresIn}}.

You are receiving this notification because this email address was used to
register an account. If you did not perform this action, please ignore this
email.
`

var verificationTmpl = template.Must(template.New("verify_email").Parse(verificationText))

// VerificationLink builds <baseURL>/auth/verify/<userID>/<uniqueString>.
func VerificationLink(baseURL, userID, uniqueString string) string {
	return strings.TrimRight(baseURL, "/") + "/auth/verify/" +
		url.PathEscape(userID) + "/" + url.PathEscape(uniqueString)
}

// VerificationMessage renders the verification email for to. ttl is the
// same lifetime the stored record gets.
func VerificationMessage(to, name, link string, ttl time.Duration) (Message, error) {
	data := struct {
		Name      string
		Link      string
		ExpiresIn string
	}{
		Name:      name,
		Link:      link,
		ExpiresIn: humanDuration(ttl),
	}

	var b bytes.Buffer
	if err := verificationTmpl.Execute(&b, data); err != nil {
		return Message{}, err
	}

	return Message{To: to, Subject: verificationSubject, Body: b.String()}, nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
