package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/i18n"
)

func (m model) View() string {
	t := m.text()
	th := m.theme

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.sess.Step {
	case domain.StepLogin:
		b.WriteString(RenderBanner(m.width, th.banner))
		b.WriteString("\n")
		b.WriteString(th.title.Render(t.LoginTitle) + "\n\n")
		b.WriteString(th.label.Render(t.MobileLabel) + "\n")
		b.WriteString(m.mobile.View() + "\n\n")
		b.WriteString(th.button.Render(t.LoginButton) + th.secondary.Render("  enter"))

	case domain.StepWelcome:
		b.WriteString(th.title.Render(t.WelcomeTitle) + "\n\n")
		b.WriteString(th.primary.Render(t.WelcomeDesc) + "\n\n")
		b.WriteString(th.button.Render(t.FindSchemes) + th.secondary.Render("  enter"))

	case domain.StepProfile:
		b.WriteString(m.viewProfile())

	case domain.StepLoading:
		b.WriteString(m.spinner.View() + " " + th.title.Render(t.LoadingTitle) + "\n\n")
		b.WriteString(th.secondary.Render(t.LoadingDesc) + "\n\n")
		b.WriteString(th.secondary.Render("esc " + t.Back))

	case domain.StepResults:
		if m.sess.Selected != "" {
			b.WriteString(m.viewDetail())
		} else {
			b.WriteString(m.viewResults())
		}

	case domain.StepError:
		b.WriteString(th.urgent.Render(strings.ToUpper(t.ErrorTitle)) + "\n\n")
		b.WriteString(th.primary.Render(m.errorText()) + "\n\n")
		b.WriteString(th.button.Render(t.TryAgain) + th.secondary.Render("  enter"))
	}

	if m.flash != "" {
		b.WriteString("\n\n" + th.urgent.Render(m.flash))
	}
	b.WriteString("\n\n" + th.footer.Render(t.KeysHelp) + "\n")
	return b.String()
}

func (m model) renderHeader() string {
	t := m.text()
	left := t.AppName + " · " + t.Tagline
	right := t.Language
	w := m.width
	if w <= 0 {
		w = 80
	}
	gap := w - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.header.Width(w).Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) viewProfile() string {
	t := m.text()
	th := m.theme
	labels := [fieldCount]string{t.AgeLabel, t.GenderLabel, t.IncomeLabel, t.StateLabel, t.OccLabel, t.CatLabel}

	var b strings.Builder
	b.WriteString(th.title.Render(t.ProfileTitle) + "  " + th.secondary.Render(t.Required) + "\n\n")
	for i, in := range m.fields {
		label := labels[i] + " *"
		if i == fieldIncome {
			label += " " + th.secondary.Render("("+t.IncomeDesc+")")
		}
		if i == m.focus {
			b.WriteString(th.accent.Render("▍") + th.label.Render(label) + "\n")
		} else {
			b.WriteString(" " + th.label.Render(label) + "\n")
		}
		b.WriteString(" " + in.View() + "\n")
	}
	b.WriteString("\n" + th.button.Render(t.ShowSchemes) + th.secondary.Render("  ctrl+s · esc "+t.Back))
	return b.String()
}

func (m model) viewResults() string {
	t := m.text()
	th := m.theme
	res := m.sess.Result

	var b strings.Builder
	b.WriteString(th.title.Render(t.ResultsTitle) + "\n\n")
	if res == nil {
		return b.String()
	}
	b.WriteString(th.card.Render(th.label.Render(t.QuickSummary)+"\n"+th.primary.Render(res.Summary)) + "\n\n")

	if len(res.Schemes) == 0 {
		b.WriteString(th.secondary.Render(t.NoSchemes) + "\n")
	}
	for i, s := range res.Schemes {
		line := fmt.Sprintf("%d. %s", i+1, s.Name)
		if s.Department != "" {
			line += "  ·  " + s.Department
		}
		if i == m.cursor {
			b.WriteString(th.selected.Render(" "+line+" ") + "\n")
		} else {
			b.WriteString(" " + th.primary.Render(line) + "\n")
		}
	}
	b.WriteString("\n" + th.secondary.Render("↑/↓ · enter · r "+t.ChangeDetails))
	b.WriteString("\n\n" + th.footer.Render(t.Disclaimer))
	return b.String()
}

func (m model) viewDetail() string {
	t := m.text()
	th := m.theme
	s, ok := m.sess.Result.Scheme(m.sess.Selected)
	if !ok {
		return ""
	}

	var b strings.Builder
	if s.Department != "" {
		b.WriteString(th.secondary.Render(strings.ToUpper(s.Department)) + "\n")
	}
	b.WriteString(th.title.Render(s.Name) + "\n\n")

	b.WriteString(th.label.Render(t.WhatIsThis) + "  " + m.listenButton() + "\n")
	b.WriteString(th.primary.Render(s.Description) + "\n\n")

	b.WriteString(th.label.Render(t.KeyBenefits) + "\n")
	b.WriteString(th.primary.Render(s.Benefits) + "\n\n")

	if len(s.EligibilityCriteria) > 0 {
		b.WriteString(th.label.Render(t.WhoCanApply) + "\n")
		for _, c := range s.EligibilityCriteria {
			b.WriteString(th.primary.Render("  • "+c) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(th.label.Render(t.HowToApply) + "\n")
	b.WriteString(th.primary.Render(s.ApplicationProcess) + "\n")

	if s.Link != "" {
		b.WriteString("\n" + th.label.Render(t.OfficialSite) + "  " + th.accent.Underline(true).Render(s.Link) + "\n")
	}
	b.WriteString("\n" + th.secondary.Render("l "+t.Listen+" · esc "+t.Back))
	return b.String()
}

func (m model) listenButton() string {
	t := m.text()
	if m.player == nil {
		return ""
	}
	switch m.playing {
	case domain.PlaybackSynthesizing:
		return m.theme.secondary.Render("◌ " + t.Preparing)
	case domain.PlaybackSpeaking:
		return m.theme.button.Render("■ " + t.StopListen)
	default:
		return m.theme.button.Render("▶ " + t.Listen)
	}
}

func (m model) errorText() string {
	if m.sess.Err == nil {
		return ""
	}
	return i18n.ErrorMessage(m.sess.Language, m.sess.Err)
}
