package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"barhopregistration/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// supportedLocales are the languages templates exist for. Anything else
// falls back to English.
var supportedLocales = map[string]bool{"en": true, "de": true}

// templateRenderer implements domain.EmailTemplateRenderer using embedded
// template files, organized as templates/<locale>/<name>.{html,txt} plus
// <name>_subject.txt.
type templateRenderer struct{}

// NewTemplateRenderer returns an EmailTemplateRenderer that loads templates
// from the embedded templates folder.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{}
}

// Render executes the named template (e.g. "event_registered") in the best
// matching locale and returns subject, html, and text bodies. The locale is
// matched by prefix: "de-DE" and "de_AT" both resolve to "de".
func (r *templateRenderer) Render(templateName, locale string, data any) (subject, htmlBody, textBody string, err error) {
	lang := resolveLocale(locale)
	subject, err = r.renderFile(lang, templateName+"_subject.txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err = r.renderFile(lang, templateName+".html", data, true)
	if err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = r.renderFile(lang, templateName+".txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func resolveLocale(locale string) string {
	lang := strings.ToLower(locale)
	for _, sep := range []string{"-", "_"} {
		if i := strings.Index(lang, sep); i >= 0 {
			lang = lang[:i]
		}
	}
	if !supportedLocales[lang] {
		return "en"
	}
	return lang
}

func (r *templateRenderer) renderFile(lang, name string, data any, html bool) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + lang + "/" + name)
	if err != nil && lang != "en" {
		// Not every template has a localized variant.
		raw, err = templateFS.ReadFile("templates/en/" + name)
	}
	if err != nil {
		return "", err
	}
	tmplStr := string(raw)
	var buf bytes.Buffer
	if html {
		t, err := template.New(name).Parse(tmplStr)
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	} else {
		t, err := texttemplate.New(name).Parse(tmplStr)
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
