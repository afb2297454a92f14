package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/dom"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/scene"
)

const (
	// defaultCellWidth is how many layout pixels one terminal column covers.
	defaultCellWidth = 12.0

	// gutterStep is the gutter change per key press.
	gutterStep = 5.0

	// previewChrome is the number of terminal rows used by the header and
	// the help line.
	previewChrome = 3
)

// settledMsg asks the model to redraw once pending resizes have run.
type settledMsg struct{}

// previewModel is the bubbletea model of the preview command. Terminal
// resizes go to the document's window, so the grid's own resize handling
// decides when to lay out again.
type previewModel struct {
	scene     *scene.Scene
	doc       *dom.Document
	grid      *masonry.Grid
	labels    []string
	cellWidth float64

	cols, rows int
	gutter     float64
	err        error
}

// newPreviewModel builds the scene's document and binds a grid to it.
func newPreviewModel(s *scene.Scene, cellWidth float64, logger *log.Logger, gridOpts ...masonry.GridOption) (*previewModel, error) {
	doc, container := s.Build()
	opts := append([]masonry.GridOption{masonry.WithStrict(true), masonry.WithLogger(logger)}, gridOpts...)
	g, err := masonry.New(container, s.Options, opts...)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(s.Items))
	for i, it := range s.Items {
		labels[i] = it.Label(i)
	}
	return &previewModel{
		scene:     s,
		doc:       doc,
		grid:      g,
		labels:    labels,
		cellWidth: cellWidth,
		cols:      int(s.Container.Width / cellWidth),
		gutter:    g.Snapshot().Config.GutterX,
	}, nil
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.grid.Teardown()
			return m, tea.Quit
		case "+", "=":
			m.setGutter(m.gutter + gutterStep)
		case "-", "_":
			m.setGutter(max(0, m.gutter-gutterStep))
		case "d":
			dir := masonry.RTL
			if m.grid.Snapshot().Config.Direction == masonry.RTL {
				dir = masonry.LTR
			}
			m.err = m.grid.Apply(masonry.Options{Direction: dir})
		case "w":
			m.err = m.grid.Apply(masonry.Options{Wedge: masonry.Bool(!m.grid.Snapshot().Config.Wedge)})
		case "m":
			m.err = m.grid.Apply(masonry.Options{Minify: masonry.Bool(!m.grid.Snapshot().Config.Minify)})
		case "r":
			m.grid.Recompute()
		}
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.doc.Window().Resize(float64(msg.Width)*m.cellWidth, float64(msg.Height)*m.cellWidth)
		return m, settle()
	case settledMsg:
		if m.grid.ResizePending() {
			return m, settle()
		}
	}
	return m, nil
}

func (m *previewModel) setGutter(px float64) {
	m.gutter = px
	m.err = m.grid.Apply(masonry.Options{Gutter: masonry.Px(px)})
}

// settle schedules a redraw after the resize debounce has elapsed.
func settle() tea.Cmd {
	return tea.Tick(masonry.ResizeDebounce+10*time.Millisecond, func(time.Time) tea.Msg {
		return settledMsg{}
	})
}

func (m *previewModel) View() string {
	snap := m.grid.Snapshot()
	frame := render.FromPlacement(snap.Placement, m.labels)

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.scene.Name))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d columns · column width %s · gutter %s · %s",
		snap.Columns, formatPx(snap.Placement.ColumnWidth), formatPx(snap.GutterX), snap.Config.Direction)))
	b.WriteString("\n")

	body := render.RenderText(frame, max(m.cols, 1))
	if m.rows > previewChrome {
		lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
		if len(lines) > m.rows-previewChrome {
			lines = lines[:m.rows-previewChrome]
		}
		body = strings.Join(lines, "\n") + "\n"
	}
	b.WriteString(body)

	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("+/- gutter  d direction  w wedge  m minify  r relayout  q quit"))
	return b.String()
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var flags sceneFlags
	var cellWidth float64

	cmd := &cobra.Command{
		Use:   "preview [scene]",
		Short: "Lay out a scene live in the terminal",
		Long: `Lay out a scene in the terminal. The terminal width drives the container
width, so resizing the window re-flows the columns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := loadScene(ctx, args, flags.sample)
			if err != nil {
				return err
			}
			overrides, err := flags.overrides(cmd)
			if err != nil {
				return err
			}
			if cellWidth <= 0 {
				return fmt.Errorf("--cell-width must be positive")
			}
			s.Options = s.Options.Merge(overrides)
			if flags.width > 0 {
				s.Container.Width = flags.width
			}

			m, err := newPreviewModel(s, cellWidth, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			defer m.grid.Teardown()

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&cellWidth, "cell-width", defaultCellWidth, "layout pixels per terminal column")

	return cmd
}
