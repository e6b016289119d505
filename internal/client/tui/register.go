package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"github.com/memorylane/memorylane/internal/client/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// registration is validated locally before it hits the backend.
type registration struct {
	Name     string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type registerDoneMsg struct {
	user *models.User
	err  error
}

type registerPage struct {
	d      *deps
	inputs []textinput.Model
	focus  int
	busy   bool
	spin   spinner.Model
	errMsg string
}

func newRegisterPage(d *deps) registerPage {
	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 80
	name.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "password (8+ characters)"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return registerPage{d: d, inputs: []textinput.Model{name, email, password}, spin: sp}
}

func (p registerPage) Title() string { return "Create account" }

func (p registerPage) Init() tea.Cmd { return textinput.Blink }

func (p registerPage) Update(msg tea.Msg) (page, tea.Cmd) {
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
		case "esc", "ctrl+r":
			return p, navigate(RouteLogin)
		case "enter":
			if p.focus < len(p.inputs)-1 {
				p.focus++
				return p.refocus()
			}
			return p.submit()
		}

	case registerDoneMsg:
		p.busy = false
		if msg.err != nil {
			p.errMsg = msg.err.Error()
			return p, nil
		}
		if err := p.d.session.Login(*msg.user); err != nil {
			p.errMsg = err.Error()
			return p, nil
		}
		return p, tea.Batch(navigate(RouteDashboard), toast("Welcome to MemoryLane"))

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

func (p registerPage) refocus() (page, tea.Cmd) {
	for i := range p.inputs {
		if i == p.focus {
			p.inputs[i].Focus()
		} else {
			p.inputs[i].Blur()
		}
	}
	return p, textinput.Blink
}

func (p registerPage) submit() (page, tea.Cmd) {
	form := registration{
		Name:     strings.TrimSpace(p.inputs[0].Value()),
		Email:    strings.TrimSpace(p.inputs[1].Value()),
		Password: p.inputs[2].Value(),
	}
	if err := validate.Struct(form); err != nil {
		p.errMsg = registrationError(err)
		return p, nil
	}

	p.busy = true
	p.errMsg = ""
	d := p.d
	register := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
		defer cancel()
		u, err := d.api.Register(ctx, form.Name, form.Email, form.Password)
		return registerDoneMsg{user: u, err: err}
	}
	return p, tea.Batch(p.spin.Tick, register)
}

// registrationError maps the first validation failure onto a readable line.
func registrationError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}
	switch f := errs[0]; f.Field() {
	case "Name":
		return "Name must be at least 2 characters"
	case "Email":
		return "A valid email address is required"
	default:
		return "Password must be at least 8 characters"
	}
}

func (p registerPage) View(width int) string {
	th := p.d.theme
	var b strings.Builder

	b.WriteString(th.Header.Render("Start your archive") + "\n\n")
	for i, in := range p.inputs {
		cursor := "  "
		if i == p.focus {
			cursor = th.Badge.Render("> ")
		}
		b.WriteString(cursor + in.View() + "\n")
	}
	b.WriteString("\n")

	if p.busy {
		b.WriteString(p.spin.View() + " creating account...\n")
	}
	if p.errMsg != "" {
		b.WriteString(th.Error.Render(p.errMsg) + "\n")
	}

	b.WriteString("\n" + th.Help.Render("enter: create - esc: back to sign in"))
	return th.Box.Width(min(width-2, 60)).Render(b.String())
}
