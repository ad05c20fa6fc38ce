package ui

import (
	"bytes"
	"io"
	"os"
	"os/exec"

	"panedeck/internal/pty"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TerminalOutputMsg carries bytes read from the PTY for display.
type TerminalOutputMsg struct {
	Data []byte
}

// TerminalView is a PTY-backed overlay used when no tmux server is available
// to host terminal panes. It spawns the configured shell and passes through
// stdin/stdout. Esc dismisses (does not pass through to the shell).
type TerminalView struct {
	ptyRunner pty.Runner
	ptmx      io.ReadWriteCloser
	content   *bytes.Buffer
	viewport  viewport.Model
	shellArgs []string
	workDir   string
	outputCh  chan []byte
}

// Ensure TerminalView implements View.
var _ View = (*TerminalView)(nil)

const defaultTerminalWidth = 70
const defaultTerminalHeight = 18

// NewTerminalView creates a terminal view that will spawn a PTY in workDir.
// shellArgs is the tokenized shell command; when empty, $SHELL then sh is used.
func NewTerminalView(ptyRunner pty.Runner, shellArgs []string, workDir string) *TerminalView {
	vp := viewport.New(defaultTerminalWidth, defaultTerminalHeight)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1)
	return &TerminalView{
		ptyRunner: ptyRunner,
		content:   &bytes.Buffer{},
		viewport:  vp,
		shellArgs: shellArgs,
		workDir:   workDir,
		outputCh:  make(chan []byte, 64),
	}
}

// Init implements View. Spawns the shell and starts reading from the PTY.
func (t *TerminalView) Init() tea.Cmd {
	args := t.shellArgs
	if len(args) == 0 {
		if sh := os.Getenv("SHELL"); sh != "" {
			args = []string{sh}
		} else {
			args = []string{"sh"}
		}
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = t.workDir
	if cmd.Dir == "" {
		cmd.Dir = "."
	}

	sz := pty.Size{Rows: uint16(defaultTerminalHeight), Cols: uint16(defaultTerminalWidth)}
	ptmx, err := t.ptyRunner.Start(nil, cmd, sz)
	if err != nil {
		t.content.WriteString("Failed to spawn shell: " + err.Error() + "\r\n")
		t.refreshViewport()
		return nil
	}
	t.ptmx = ptmx

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				cp := make([]byte, n)
				copy(cp, buf[:n])
				select {
				case t.outputCh <- cp:
				default:
					// Channel full, drop (avoid blocking)
				}
			}
			if err != nil {
				close(t.outputCh)
				return
			}
		}
	}()

	return t.waitForOutput()
}

func (t *TerminalView) waitForOutput() tea.Cmd {
	return func() tea.Msg {
		data, ok := <-t.outputCh
		if !ok {
			return nil
		}
		return TerminalOutputMsg{Data: data}
	}
}

// Update implements View.
func (t *TerminalView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case TerminalOutputMsg:
		if t.ptmx != nil {
			t.content.Write(msg.Data)
			t.refreshViewport()
			t.viewport.GotoBottom()
		}
		return t, t.waitForOutput()
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return t, func() tea.Msg { return DismissModalMsg{} }
		}
		if t.ptmx != nil {
			b := keyToPTYBytes(msg)
			if len(b) > 0 {
				t.ptmx.Write(b)
			}
		}
		return t, t.waitForOutput()
	case tea.WindowSizeMsg:
		w := msg.Width - 4
		h := msg.Height/2 + 4
		if w < 40 {
			w = 40
		}
		if h < 12 {
			h = 12
		}
		t.viewport.Width = w
		t.viewport.Height = h
		if t.ptmx != nil && t.ptyRunner != nil {
			t.ptyRunner.Resize(t.ptmx, pty.Size{Rows: uint16(h), Cols: uint16(w)})
		}
		t.refreshViewport()
		return t, t.waitForOutput()
	}

	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, tea.Batch(cmd, t.waitForOutput())
}

// View implements View.
func (t *TerminalView) View() string {
	header := Styles.Title.Render("Terminal") + Styles.Hint.Render("  Esc: exit")
	return header + "\n" + t.viewport.View()
}

func (t *TerminalView) refreshViewport() {
	t.viewport.SetContent(t.content.String())
}

// keyToPTYBytes converts a Bubble Tea KeyMsg to bytes the PTY expects.
func keyToPTYBytes(msg tea.KeyMsg) []byte {
	switch msg.Type {
	case tea.KeyEnter:
		return []byte{'\r'}
	case tea.KeyBackspace:
		return []byte{0x7f}
	case tea.KeyTab:
		return []byte{'\t'}
	case tea.KeySpace:
		return []byte{' '}
	case tea.KeyUp:
		return []byte{0x1b, '[', 'A'}
	case tea.KeyDown:
		return []byte{0x1b, '[', 'B'}
	case tea.KeyRight:
		return []byte{0x1b, '[', 'C'}
	case tea.KeyLeft:
		return []byte{0x1b, '[', 'D'}
	case tea.KeyCtrlC:
		return []byte{0x03}
	case tea.KeyCtrlD:
		return []byte{0x04}
	case tea.KeyEsc:
		return []byte{0x1b}
	case tea.KeyRunes:
		return []byte(string(msg.Runes))
	default:
		if len(msg.Runes) > 0 {
			return []byte(string(msg.Runes))
		}
		return nil
	}
}

// Close releases PTY resources. Call when dismissing the overlay.
func (t *TerminalView) Close() error {
	if t.ptmx != nil {
		if c, ok := t.ptmx.(io.Closer); ok {
			return c.Close()
		}
	}
	return nil
}
