package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memorylane/memorylane/internal/client/models"
)

type loginDoneMsg struct {
	user *models.User
	err  error
}

type loginPage struct {
	d      *deps
	inputs []textinput.Model
	focus  int
	busy   bool
	spin   spinner.Model
	errMsg string
}

func newLoginPage(d *deps) loginPage {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return loginPage{d: d, inputs: []textinput.Model{email, password}, spin: sp}
}

func (p loginPage) Title() string { return "Sign in" }

func (p loginPage) Init() tea.Cmd { return textinput.Blink }

func (p loginPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.busy {
			return p, nil
		}
		switch msg.String() {
		case "tab", "down":
			p.focus = (p.focus + 1) % len(p.inputs)
			return p.refocus()
		case "shift+tab", "up":
			p.focus = (p.focus + len(p.inputs) - 1) % len(p.inputs)
			return p.refocus()
		case "ctrl+r":
			return p, navigate(RouteRegister)
		case "enter":
			if p.focus < len(p.inputs)-1 {
				p.focus++
				return p.refocus()
			}
			return p.submit()
		}

	case loginDoneMsg:
		p.busy = false
		if msg.err != nil {
			p.errMsg = msg.err.Error()
			return p, nil
		}
		if err := p.d.session.Login(*msg.user); err != nil {
			p.errMsg = err.Error()
			return p, nil
		}
		return p, navigate(RouteDashboard)

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		if p.busy {
			return p, cmd
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	return p, cmd
}

func (p loginPage) refocus() (page, tea.Cmd) {
	for i := range p.inputs {
		if i == p.focus {
			p.inputs[i].Focus()
		} else {
			p.inputs[i].Blur()
		}
	}
	return p, textinput.Blink
}

func (p loginPage) submit() (page, tea.Cmd) {
	email := strings.TrimSpace(p.inputs[0].Value())
	password := p.inputs[1].Value()
	if email == "" || password == "" {
		p.errMsg = "Email and password are required"
		return p, nil
	}

	p.busy = true
	p.errMsg = ""
	d := p.d
	login := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
		defer cancel()
		u, err := d.api.Login(ctx, email, password)
		return loginDoneMsg{user: u, err: err}
	}
	return p, tea.Batch(p.spin.Tick, login)
}

func (p loginPage) View(width int) string {
	th := p.d.theme
	var b strings.Builder

	b.WriteString(th.Header.Render("Welcome back") + "\n\n")
	for i, in := range p.inputs {
		cursor := "  "
		if i == p.focus {
			cursor = th.Badge.Render("> ")
		}
		b.WriteString(cursor + in.View() + "\n")
	}
	b.WriteString("\n")

	if p.busy {
		b.WriteString(p.spin.View() + " signing in...\n")
	}
	if p.errMsg != "" {
		b.WriteString(th.Error.Render(p.errMsg) + "\n")
	}

	b.WriteString("\n" + th.Help.Render("enter: sign in - ctrl+r: create an account - ctrl+c: quit"))
	return th.Box.Width(min(width-2, 60)).Render(b.String())
}
