package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/errors"
	"github.com/matzehuels/gridcanvas/pkg/session"
	"github.com/matzehuels/gridcanvas/pkg/snapshot"
)

// Editor styles
var (
	editorHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editorStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	editorLiveStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

// editCommand creates the "edit" command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the canvas interactively",
		Long: `Edit the canvas in the terminal. Arrow keys drag the selected widget and
shift+arrow keys resize it; enter drops it. A drop that overlaps another widget
snaps back to where the gesture started.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if len(sess.Instances()) == 0 {
				printInfo("Canvas is empty")
				printNextStep("Add a widget", appName+" add <widget>")
				return nil
			}

			m := NewEditorModel(cmd.Context(), sess)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// =============================================================================
// EditorModel - Interactive canvas editing
// =============================================================================

// gesture is a drag or resize in progress.
type gesture struct {
	phase  canvas.Phase // DragMove or ResizeMove
	origin canvas.Layout
	target canvas.Layout
}

// EditorModel is the bubbletea model for interactive canvas editing.
// Key presses are translated into the same gesture phases a pointer-driven
// front end would report.
type EditorModel struct {
	ctx    context.Context
	sess   *session.Session
	live   *gesture
	status string
}

// NewEditorModel creates an editor for sess and selects the first widget.
func NewEditorModel(ctx context.Context, sess *session.Session) EditorModel {
	m := EditorModel{ctx: ctx, sess: sess}
	if instances := sess.Instances(); len(instances) > 0 {
		_ = sess.Select(instances[0].ID)
	}
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "q", "ctrl+c":
		m.drop()
		return m, tea.Quit
	case "tab", "shift+tab":
		m.drop()
		m.cycle(k == "tab")
	case "up", "down", "left", "right":
		m.step(canvas.DragMove, k)
	case "shift+up", "shift+down", "shift+left", "shift+right":
		m.step(canvas.ResizeMove, strings.TrimPrefix(k, "shift+"))
	case "enter", " ":
		m.drop()
	case "esc":
		m.cancel()
	case "x", "delete":
		m.remove()
	}
	return m, nil
}

// cycle moves the selection forward or backward in canvas order.
func (m *EditorModel) cycle(forward bool) {
	instances := m.sess.Instances()
	if len(instances) == 0 {
		return
	}
	cur, _ := m.sess.Selected()
	idx := 0
	for i, w := range instances {
		if w.ID == cur.ID {
			idx = i
		}
	}
	if forward {
		idx = (idx + 1) % len(instances)
	} else {
		idx = (idx + len(instances) - 1) % len(instances)
	}
	_ = m.sess.Select(instances[idx].ID)
	m.status = ""
}

// step advances the live gesture by one grid unit in dir.
func (m *EditorModel) step(phase canvas.Phase, dir string) {
	sel, ok := m.sess.Selected()
	if !ok {
		return
	}
	if m.live != nil && m.live.phase != phase {
		m.drop()
		sel, _ = m.sess.Selected()
	}
	if m.live == nil {
		m.live = &gesture{phase: phase, origin: sel.Layout, target: sel.Layout}
	}

	t := &m.live.target
	dx, dy := 0, 0
	switch dir {
	case "up":
		dy = -1
	case "down":
		dy = 1
	case "left":
		dx = -1
	case "right":
		dx = 1
	}
	if phase == canvas.DragMove {
		t.X, t.Y = max(t.X+dx, 0), max(t.Y+dy, 0)
	} else {
		t.W, t.H = max(t.W+dx, 1), max(t.H+dy, 1)
	}

	if _, err := m.sess.UpdateLayout(m.ctx, sel.ID, *t, phase); err != nil {
		m.status = errors.UserMessage(err)
	}
}

// drop ends the live gesture at its target.
func (m *EditorModel) drop() {
	if m.live == nil {
		return
	}
	sel, ok := m.sess.Selected()
	stop := canvas.DragStop
	if m.live.phase == canvas.ResizeMove {
		stop = canvas.ResizeStop
	}
	target, origin := m.live.target, m.live.origin
	m.live = nil
	if !ok {
		return
	}

	got, err := m.sess.UpdateLayout(m.ctx, sel.ID, target, stop)
	switch {
	case err != nil:
		m.status = errors.UserMessage(err)
	case stop == canvas.DragStop && (got.X != target.X || got.Y != target.Y):
		m.status = StyleWarning.Render("Overlap: move reverted")
	case stop == canvas.ResizeStop && got == origin && (got.W != target.W || got.H != target.H):
		m.status = StyleWarning.Render("Overlap: resize reverted")
	default:
		m.status = StyleSuccess.Render(fmt.Sprintf("%s at (%d,%d) %dx%d", sel.ID, got.X, got.Y, got.W, got.H))
	}
}

// cancel ends the live gesture back at its starting geometry.
func (m *EditorModel) cancel() {
	if m.live == nil {
		return
	}
	m.live.target = m.live.origin
	m.drop()
	m.status = "Gesture cancelled"
}

// remove deletes the selected widget and selects the next one.
func (m *EditorModel) remove() {
	m.drop()
	sel, ok := m.sess.Selected()
	if !ok {
		return
	}
	if err := m.sess.RemoveWidget(m.ctx, sel.ID); err != nil {
		m.status = errors.UserMessage(err)
		return
	}
	m.status = fmt.Sprintf("Removed %s", sel.ID)
	if instances := m.sess.Instances(); len(instances) > 0 {
		_ = m.sess.Select(instances[0].ID)
	}
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Canvas"))
	b.WriteString("\n")
	b.WriteString(editorHelpStyle.Render("tab select  ←↑↓→ move  shift+←↑↓→ resize  ⏎ drop  esc cancel  x remove  q quit"))
	b.WriteString("\n\n")

	sel, _ := m.sess.Selected()
	b.WriteString(snapshot.Text(m.sess.Instances(), m.sess.Grid(), snapshot.Options{Selected: sel.ID}))
	b.WriteString("\n")

	if m.live != nil {
		verb := "dragging"
		if m.live.phase == canvas.ResizeMove {
			verb = "resizing"
		}
		b.WriteString(editorLiveStyle.Render(verb + " " + sel.ID))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(editorStatusStyle.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}
