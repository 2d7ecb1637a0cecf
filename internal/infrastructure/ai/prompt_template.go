package ai

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/doeshing/alex-go/internal/domain"
)

type renderedPrompt struct {
	Developer string
	User      string
}

var developerTemplate = template.Must(template.New("developer").Parse(
	`You are Alex, a practical Linux CLI assistant.
{{.Language}}
{{.Style}}
Return ONLY valid JSON matching the provided schema.
Do not use markdown code fences.
Prefer Debian 13 (apt/systemctl) solutions.
Keep commands minimal and safe; mark destructive changes as high or super_high risk.
Do not wrap commands in quotes in checks/notes.
Use commands[] for actual shell commands.
Whenever checking version, prefer: command -v <bin> && <bin> --version.
If the user asks to install something, prefer checking the Debian package name first:
  - use: apt-cache search <name> | head
  - and/or: apt-cache policy <pkg>
Only then propose apt install.
If apt says 'Unable to locate package', suggest likely correct package names (e.g., stunnel -> stunnel4).
`))

var userTemplate = template.Must(template.New("user").Parse(
	`System:
{{.System}}

Intent: {{.Intent}}

Request:
{{.Prompt}}
`))

func renderPrompt(language, style string, info domain.SystemInfo, req domain.ReasoningRequest) (renderedPrompt, error) {
	if language == "" {
		language = "Answer in English."
	}
	if style == "" {
		style = "Be practical and direct."
	}

	var dev bytes.Buffer
	if err := developerTemplate.Execute(&dev, struct{ Language, Style string }{language, style}); err != nil {
		return renderedPrompt{}, err
	}

	var user bytes.Buffer
	data := struct {
		System string
		Intent domain.Intent
		Prompt string
	}{
		System: info.Render(),
		Intent: req.Intent,
		Prompt: strings.TrimSpace(req.Prompt),
	}
	if err := userTemplate.Execute(&user, data); err != nil {
		return renderedPrompt{}, err
	}
	return renderedPrompt{Developer: dev.String(), User: user.String()}, nil
}
