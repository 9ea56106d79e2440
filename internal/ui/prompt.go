package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotkit/internal/auth"
	"github.com/desertthunder/spotkit/internal/shared"
)

// RedirectPrompt is a single-line input for the redirect URL.
type RedirectPrompt struct {
	authURL   string
	input     textinput.Model
	help      help.Model
	keys      keyMap
	code      string
	invalid   bool
	cancelled bool
}

var _ tea.Model = RedirectPrompt{}

// NewRedirectPrompt shows authURL so it can be opened by hand if the browser did not start.
func NewRedirectPrompt(authURL string) RedirectPrompt {
	in := textinput.New()
	in.Placeholder = "http://127.0.0.1:3000/callback?code=..."
	in.Prompt = "> "
	in.CharLimit = 2048
	in.Width = 72
	in.Focus()

	return RedirectPrompt{
		authURL: authURL,
		input:   in,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func (m RedirectPrompt) Init() tea.Cmd {
	return textinput.Blink
}

func (m RedirectPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.submit):
			code, ok := auth.ParseRedirectCode(strings.TrimSpace(m.input.Value()))
			if !ok {
				m.invalid = true
				return m, nil
			}
			m.code = code
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.invalid = false
	return m, cmd
}

func (m RedirectPrompt) View() string {
	if m.code != "" || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(Styles.Title("Authorize spotkit"))
	b.WriteString("\n")
	if m.authURL != "" {
		b.WriteString("Open this URL if your browser did not start:\n")
		b.WriteString(Styles.Help(m.authURL))
		b.WriteString("\n\n")
	}
	b.WriteString("Paste the URL you were redirected to:\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.invalid {
		b.WriteString(Styles.Err("That URL has no ?code= parameter."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Code is the extracted authorization code, empty until a valid URL is submitted.
func (m RedirectPrompt) Code() string { return m.code }

// Cancelled reports whether the user quit without submitting.
func (m RedirectPrompt) Cancelled() bool { return m.cancelled }

// PromptRedirect runs a [RedirectPrompt] on in/out and returns the code.
func PromptRedirect(ctx context.Context, authURL string, in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(
		NewRedirectPrompt(authURL),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(RedirectPrompt)
	if !ok || m.Cancelled() {
		return "", fmt.Errorf("%w: login cancelled", shared.ErrAuthFailed)
	}
	if m.Code() == "" {
		return "", shared.ErrNoRedirectCode
	}
	return m.Code(), nil
}
