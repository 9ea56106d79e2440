// Package ui holds the terminal pieces of the login flow, built on bubbletea's Elm architecture.
//
// [RedirectPrompt] asks the user to paste the URL the browser was redirected to after granting access,
// and only accepts input that carries an authorization code. [PromptRedirect] runs it as a program.
//
// The [Palette] styles CLI status output with lipgloss.
package ui
