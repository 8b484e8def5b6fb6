package service

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	activationSubject = "Activate your account"
	recoverySubject   = "Password recovery"
)

var activationTemplate = template.Must(template.New("activation").Parse(`<p>Hi {{.Name}},</p>
<p>Follow the link below to activate your account. The link expires in {{.Hours}} hours.</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not sign up, you can ignore this email.</p>`))

var recoveryTemplate = template.Must(template.New("recovery").Parse(`<p>Hi {{.Name}},</p>
<p>Follow the link below to reset your password. The link expires in {{.Hours}} hours.</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>If you did not request a password reset, you can ignore this email.</p>`))

type mailData struct {
	Name  string
	Link  string
	Hours int
}

func renderMail(t *template.Template, data mailData) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		// Templates are static and parsed at init; execution cannot fail on
		// this data shape.
		return ""
	}
	return b.String()
}

func activationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/activate?token=%s", strings.TrimSuffix(baseURL, "/"), token)
}

func recoveryLink(baseURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", strings.TrimSuffix(baseURL, "/"), token)
}
