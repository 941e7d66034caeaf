package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/rpg-context/pkg/prompts"
	"github.com/jwebster45206/rpg-context/pkg/state"
)

const (
	AgentName       = "Game Master"
	PlaceHolderText = "What do you do?"
)

type transcriptLine struct {
	role    string // "user" or "gm"
	content string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	playerContext *state.PlayerContext
	summary       *prompts.ContextSummary
	transcript    []transcriptLine
	chatViewport  viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type narrateResponseMsg struct {
	response *NarrateResponse
	err      error
}

type summaryMsg struct {
	summary *prompts.ContextSummary
	err     error
}

type statusMsg struct {
	text string
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	gmStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, pc *state.PlayerContext) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:        cfg,
		client:        client,
		playerContext: pc,
		textarea:      ta,
		chatViewport:  chatVp,
		metaViewport:  metaVp,
		ready:         false,
	}
}

func writeMetadata(pc *state.PlayerContext, summary *prompts.ContextSummary) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("PLAYER CONTEXT") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(pc.SessionID[:8] + "...\n\n")

	content.WriteString("Character:\n")
	content.WriteString(pc.Character.Name + "\n\n")

	content.WriteString("Location:\n")
	content.WriteString(pc.Location.Current + "\n\n")

	content.WriteString("Health:\n")
	content.WriteString(fmt.Sprintf("%d/%d\n\n", pc.Character.Health.Current, pc.Character.Health.Max))

	content.WriteString("Reputation:\n")
	content.WriteString(fmt.Sprintf("%d (%s)\n\n", pc.Character.Reputation, state.ReputationDescription(pc.Character.Reputation)))

	content.WriteString("Mood:\n")
	content.WriteString(pc.Character.Mood() + "\n\n")

	if summary != nil {
		content.WriteString("Focus:\n")
		content.WriteString(summary.RecentFocus + "\n\n")

		if len(summary.ActiveNPCs) > 0 {
			content.WriteString("NPCs here:\n")
			for _, npc := range summary.ActiveNPCs {
				content.WriteString(fmt.Sprintf("• %s (%s)\n", npc.Name, npc.Mood))
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /stats: Session stats\n")
	content.WriteString("• /copy: Copy session ID\n")

	return content.String()
}

// writeChatContent rebuilds the chat viewport from the transcript for the
// current viewport width
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("RPG CONTEXT") + "\n\n")
	content.WriteString("Welcome, " + m.playerContext.Character.Name + "!\n")
	content.WriteString("You awaken in " + m.playerContext.Location.Current + ". Type a command to begin.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(1, chatWidth-6))) + "\n\n")

	for _, line := range m.transcript {
		switch line.role {
		case "gm":
			content.WriteString(formatGMResponse(line.content, chatWidth) + "\n\n")
		case "user":
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(line.content, max(1, chatWidth-6)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func formatGMResponse(response string, width int) string {
	prefix := AgentName + ": "
	wrapped := wordwrap.String(response, max(1, width-len(prefix)))
	return gmStyle.Render(prefix) + wrapped
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.playerContext, m.summary))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0

			m.transcript = append(m.transcript, transcriptLine{role: "user", content: input})
			m.writeChatContent()

			return m, tea.Batch(m.sendPlayerCommand(input), progressTick())
		}

	case narrateResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
		} else {
			m.transcript = append(m.transcript, transcriptLine{role: "gm", content: msg.response.Narration})
			if msg.response.Context != nil {
				m.playerContext = msg.response.Context
			}
			m.writeChatContent()
			m.metaViewport.SetContent(writeMetadata(m.playerContext, m.summary))
		}
		m.chatViewport.GotoBottom()
		return m, m.refreshSummary()

	case summaryMsg:
		if msg.err == nil && msg.summary != nil {
			m.summary = msg.summary
			m.metaViewport.SetContent(writeMetadata(m.playerContext, m.summary))
		}

	case statusMsg:
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + promptStyle.Render(msg.text) + "\n\n")
		m.chatViewport.GotoBottom()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /stats - Show session statistics
• /copy - Copy session ID to clipboard
• Ctrl+C - Quit game

How to play:
• Type your actions and press Enter
• The Game Master will respond to guide the story
• Be descriptive for better responses
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()

	case "/stats":
		stats := m.playerContext.SessionStats
		var statsText strings.Builder
		statsText.WriteString(titleStyle.Render("Session Stats:") + "\n")
		statsText.WriteString(fmt.Sprintf("• Total actions: %d\n", stats.TotalActions))
		statsText.WriteString(fmt.Sprintf("• Combat: %d, Social: %d, Explore: %d\n",
			stats.CombatActions, stats.SocialActions, stats.ExploreActions))
		statsText.WriteString(fmt.Sprintf("• Locations visited: %d\n", stats.LocationsVisited))
		statsText.WriteString(fmt.Sprintf("• NPCs met: %d\n", stats.NPCsInteracted))
		statsText.WriteString("\n")

		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + statsText.String())
		m.chatViewport.GotoBottom()

	case "/copy":
		return m, m.copySessionID()
	}

	return m, nil
}

func (m ConsoleUI) copySessionID() tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(m.playerContext.SessionID); err != nil {
			return statusMsg{text: "Could not copy session ID: " + err.Error()}
		}
		return statusMsg{text: "Session ID copied to clipboard."}
	}
}

func (m ConsoleUI) sendPlayerCommand(command string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendCommand(m.client, m.config.APIBaseURL, m.playerContext.SessionID, command)
		return narrateResponseMsg{resp, err}
	}
}

func (m ConsoleUI) refreshSummary() tea.Cmd {
	return func() tea.Msg {
		summary, err := getSummary(m.client, m.config.APIBaseURL, m.playerContext.SessionID)
		return summaryMsg{summary, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(1, chatWidth-4))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓") // Blinking effect at the progress point
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
