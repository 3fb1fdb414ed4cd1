// geo-setup is a small terminal wizard that bootstraps a first account
// against a running geo-server: it signs the user up, logs in and prints the
// issued token for use as a Bearer header.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultServerURL = "http://localhost:8080"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	tokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))
)

type step int

const (
	stepEnteringServer step = iota
	stepEnteringUsername
	stepEnteringPassword
	stepCreatingAccount
	stepLoggingIn
	stepComplete
)

type model struct {
	step         step
	serverURL    string
	username     string
	password     string
	currentInput string
	token        string
	userID       uint
	message      string
	quitting     bool
}

type accountCreatedMsg struct{ userID uint }
type loginSuccessMsg struct {
	token  string
	userID uint
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel() model {
	return model{
		step:         stepEnteringServer,
		currentInput: defaultServerURL,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func createAccount(serverURL, username, password string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]string{
			"username": username,
			"password": password,
		}
		jsonData, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", serverURL+"/api/v1/users", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusConflict {
			return errMsg{fmt.Errorf("username %q is already taken", username)}
		}
		if resp.StatusCode != http.StatusCreated {
			body, _ := io.ReadAll(resp.Body)
			return errMsg{fmt.Errorf("signup failed (%d): %s", resp.StatusCode, string(body))}
		}

		var result struct {
			Data struct {
				ID uint `json:"id"`
			} `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return errMsg{fmt.Errorf("unexpected signup response: %w", err)}
		}

		return accountCreatedMsg{userID: result.Data.ID}
	}
}

func loginUser(serverURL, username, password string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]string{
			"username": username,
			"password": password,
		}
		jsonData, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", serverURL+"/api/v1/auth/login", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("login failed: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("login rejected (%d)", resp.StatusCode)}
		}

		var result struct {
			Token string `json:"token"`
			User  struct {
				ID uint `json:"id"`
			} `json:"user"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return errMsg{fmt.Errorf("unexpected login response: %w", err)}
		}
		if result.Token == "" {
			return errMsg{fmt.Errorf("server did not return a token")}
		}

		return loginSuccessMsg{token: result.Token, userID: result.User.ID}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		default:
			if m.step == stepEnteringServer || m.step == stepEnteringUsername || m.step == stepEnteringPassword {
				m.currentInput += msg.String()
			}

		case "enter":
			switch m.step {
			case stepEnteringServer:
				if m.currentInput != "" {
					m.serverURL = strings.TrimRight(m.currentInput, "/")
					m.currentInput = ""
					m.step = stepEnteringUsername
				}

			case stepEnteringUsername:
				if m.currentInput != "" {
					m.username = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}

			case stepEnteringPassword:
				if m.currentInput != "" {
					m.password = m.currentInput
					m.currentInput = ""
					m.step = stepCreatingAccount
					m.message = "Creating account..."
					return m, createAccount(m.serverURL, m.username, m.password)
				}

			case stepComplete:
				m.quitting = true
				return m, tea.Quit
			}
		}

	case accountCreatedMsg:
		m.userID = msg.userID
		m.step = stepLoggingIn
		m.message = successStyle.Render(fmt.Sprintf("✓ Account created (user %d)", msg.userID))
		return m, loginUser(m.serverURL, m.username, m.password)

	case loginSuccessMsg:
		m.token = msg.token
		m.userID = msg.userID
		m.step = stepComplete
		m.message = successStyle.Render("✓ Logged in as " + m.username)

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		m.step = stepEnteringUsername
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		if m.token != "" {
			// leave the token on screen after the TUI exits
			return fmt.Sprintf("Authorization: Bearer %s\n", m.token)
		}
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🗺 geo-server account setup\n\n"))

	switch m.step {
	case stepEnteringServer:
		s.WriteString(promptStyle.Render("Server URL:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringUsername:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Choose a username:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Choose a password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepCreatingAccount, stepLoggingIn:
		s.WriteString(m.message + "\n")

	case stepComplete:
		s.WriteString(m.message + "\n\n")
		s.WriteString(promptStyle.Render("Your token:\n"))
		s.WriteString(tokenStyle.Render(m.token))
		s.WriteString("\n\nPress Enter to exit\n")
	}

	return s.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
