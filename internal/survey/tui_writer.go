package survey

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/observatory"
	"skysurvey-sim/internal/program"
	"skysurvey-sim/internal/visit"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// visitMsg carries a visit log line and the record behind it.
type visitMsg struct {
	line string
	rec  visit.Record
}

// rejectionMsg carries a rejection log line.
type rejectionMsg struct{ line string }

// statusMsg carries a survey status update.
type statusMsg struct{ visit.StatusRow }

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

const maxSectionHeightPct = 0.2

// TUIWriter renders survey output using a bubbletea TUI.
type TUIWriter struct {
	program     teaProgram
	blockColors map[string]string
	colorIdx    int
	done        chan struct{}
	sendSignal  atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(prog *program.Program, opts observatory.Options) *TUIWriter {
	bc := make(map[string]string)
	w := &TUIWriter{blockColors: bc, done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(prog, opts, bc)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	for _, blk := range prog.Blocks {
		w.getBlockColor(blk.Name)
	}
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

func (w *TUIWriter) getBlockColor(name string) string {
	if c, ok := w.blockColors[name]; ok {
		return c
	}
	c := filterPalette[w.colorIdx%len(filterPalette)]
	w.blockColors[name] = c
	w.colorIdx++
	return c
}

// Write implements VisitWriter.
func (w *TUIWriter) Write(rec visit.Record) error {
	fc := filterColors[rec.Filter]
	if fc == "" {
		fc = colorWhite
	}
	line := fmt.Sprintf("%s[%s]%s night=%d %sfield=%s%s %sfilter=%s%s %salt=%.1f%s %sX=%.2f%s %ssky=%.2f%s %sm5=%.2f%s %sslew=%.1fs%s",
		colorGray, rec.Timestamp.Format(time.RFC3339), colorReset,
		rec.Night,
		colorWhite, rec.Note, colorReset,
		fc, rec.Filter, colorReset,
		colorGreen, astro.Degrees(rec.Alt), colorReset,
		colorYellow, rec.Airmass, colorReset,
		colorCyan, rec.SkyBrightness, colorReset,
		colorMagenta, rec.FiveSigmaDepth, colorReset,
		colorBlue, rec.SlewTime, colorReset,
	)
	if rec.FilterChangeTime > 0 {
		line += fmt.Sprintf(" %sswap=%.0fs%s", colorRed, rec.FilterChangeTime, colorReset)
	}
	line += fmt.Sprintf(" exp=%.0fsx%d mjd=%.5f", rec.ExpTime, rec.NExp, rec.MJD)
	w.program.Send(visitMsg{line: line, rec: rec})
	return nil
}

// WriteRejection implements RejectionWriter.
func (w *TUIWriter) WriteRejection(rej visit.Rejection) error {
	line := fmt.Sprintf("%s[%s]%s %sREJECT%s reason=%s night=%d mjd=%.5f next=%.5f",
		colorGray, rej.Timestamp.Format(time.RFC3339), colorReset,
		colorRed, colorReset, rej.Reason, rej.Night, rej.MJD, rej.NextMJD)
	if rej.Fallback {
		line += fmt.Sprintf(" %sfallback%s", colorMagenta, colorReset)
	}
	w.program.Send(rejectionMsg{line: line})
	return nil
}

// WriteStatus implements StatusWriter.
func (w *TUIWriter) WriteStatus(st visit.StatusRow) error {
	w.program.Send(statusMsg{StatusRow: st})
	return nil
}

// WriteBatch outputs multiple visit records.
func (w *TUIWriter) WriteBatch(rows []visit.Record) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteRejections outputs multiple rejection events.
func (w *TUIWriter) WriteRejections(rows []visit.Rejection) error {
	for _, r := range rows {
		_ = w.WriteRejection(r)
	}
	return nil
}

// WriteStatuses outputs multiple status rows.
func (w *TUIWriter) WriteStatuses(rows []visit.StatusRow) error {
	for _, r := range rows {
		_ = w.WriteStatus(r)
	}
	return nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

// skyMark is a plotted position on the all-sky view, in degrees.
type skyMark struct {
	ra     float64
	dec    float64
	filter string
}

type tuiModel struct {
	prog         *program.Program
	opts         observatory.Options
	table        table.Model
	vp           viewport.Model
	rejVP        viewport.Model
	logs         []string
	rejLogs      []string
	status       visit.StatusRow
	admin        bool
	wrap         bool
	autoscroll   bool
	header       string
	headerHeight int
	height       int
	blockColors  map[string]string
	summary      bool
	help         bool
	showBlocks   bool
	showSky      bool
	filterCounts map[string]int
	totalVisits  int
	totalRejects int
	fieldMarks   map[string]skyMark
	pointing     skyMark
	havePointing bool
}

func newTUIModel(prog *program.Program, opts observatory.Options, blockColors map[string]string) tuiModel {
	cols := []table.Column{
		{Title: "Config", Width: 20},
		{Title: "Value", Width: 10},
		{Title: "Config", Width: 20},
		{Title: "Value", Width: 10},
	}
	rows := []table.Row{
		{"Site Latitude", fmt.Sprintf("%.3f", astro.Degrees(opts.Site.Latitude)), "Site Longitude", fmt.Sprintf("%.3f", astro.Degrees(opts.Site.Longitude))},
		{"Altitude Limit", fmt.Sprintf("%.1f", astro.Degrees(opts.AltLimit)), "Sun Limit", fmt.Sprintf("%.1f", astro.Degrees(opts.SunLimit))},
		{"Cloud Limit", fmt.Sprintf("%.2f", opts.CloudLimit), "Cloud Step (min)", fmt.Sprintf("%.0f", opts.CloudStepDays*24*60)},
		{"Filter Change (s)", fmt.Sprintf("%.0f", opts.FilterChangeSec), "Min Slew (s)", fmt.Sprintf("%.0f", opts.MinSlewSec)},
		{"Readout (s)", fmt.Sprintf("%.1f", opts.ReadoutSec), "Filters", strings.Join(opts.Filters, "")},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	vp := viewport.New(0, 0)
	rejVP := viewport.New(0, 0)
	m := tuiModel{
		prog:         prog,
		opts:         opts,
		table:        t,
		vp:           vp,
		rejVP:        rejVP,
		blockColors:  blockColors,
		autoscroll:   true,
		showBlocks:   true,
		filterCounts: make(map[string]int),
		fieldMarks:   make(map[string]skyMark),
	}
	return m
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tableWidth := msg.Width
		if m.showBlocks {
			tableWidth = msg.Width / 2
		}
		m.table.SetWidth(tableWidth)
		m.vp.Width = msg.Width
		m.rejVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshRejections()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			m.header = m.renderHeader()
			m.headerHeight = lipgloss.Height(m.header)
			m.updateViewportHeight()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.rejVP.GotoBottom()
			}
			return m, nil
		case "p":
			m.showBlocks = !m.showBlocks
			width := m.vp.Width
			if m.showBlocks {
				m.table.SetWidth(width / 2)
			} else {
				m.table.SetWidth(width)
			}
			m.header = m.renderHeader()
			m.headerHeight = lipgloss.Height(m.header)
			m.updateViewportHeight()
			return m, nil
		case "m":
			m.showSky = !m.showSky
			m.updateViewportHeight()
			return m, nil
		case "t":
			m.summary = !m.summary
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
				m.rejVP.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
				m.rejVP.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
				m.rejVP.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
				m.rejVP.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				m.rejVP, _ = m.rejVP.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case visitMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > 1000 {
			m.logs = m.logs[len(m.logs)-1000:]
		}
		m.totalVisits++
		m.filterCounts[msg.rec.Filter]++
		m.fieldMarks[msg.rec.Note] = skyMark{
			ra:     astro.Degrees(msg.rec.RA),
			dec:    astro.Degrees(msg.rec.Dec),
			filter: msg.rec.Filter,
		}
		m.pointing = m.fieldMarks[msg.rec.Note]
		m.havePointing = true
		m.refreshViewport()
	case rejectionMsg:
		m.rejLogs = append(m.rejLogs, msg.line)
		if len(m.rejLogs) > 1000 {
			m.rejLogs = m.rejLogs[len(m.rejLogs)-1000:]
		}
		m.totalRejects++
		m.updateViewportHeight()
		m.refreshRejections()
		m.refreshViewport()
	case statusMsg:
		m.status = msg.StatusRow
	case adminMsg:
		m.admin = msg.active
	}
	return m, nil
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())

	maxLines := m.maxSectionLines()

	rejLines := len(m.rejLogs)
	if rejLines == 0 {
		rejLines = 1
	}
	if rejLines > maxLines {
		rejLines = maxLines
	}
	m.rejVP.Height = rejLines

	rejHeight := 1 + m.rejVP.Height
	h := m.height - m.headerHeight - bottomHeight - rejHeight - 4
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.rejVP.GotoBottom()
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshRejections() {
	content := "none"
	if len(m.rejLogs) > 0 {
		content = strings.Join(m.rejLogs, "\n")
	}
	m.rejVP.SetContent(content)
	if m.autoscroll {
		m.rejVP.GotoBottom()
	}
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	bottom := m.renderBottom()
	divider := strings.Repeat("─", m.vp.Width)
	if m.showSky {
		sections := []string{
			m.header,
			divider,
			m.renderSky(),
			divider,
			bottom,
		}
		return strings.Join(sections, "\n")
	}
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		"Rejections:",
		m.rejVP.View(),
		divider,
		bottom,
	}
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	tableView := m.table.View()
	if !m.showBlocks {
		return tableView
	}
	blocksWidth := m.vp.Width/2 - 1
	blocks := renderProgramTree(m.prog, m.blockColors, m.wrap, blocksWidth)
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, sep, blocks)
}

func renderProgramTree(prog *program.Program, colors map[string]string, wrap bool, width int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Program: %s\n", prog.Name))
	for i, blk := range prog.Blocks {
		prefix := "├─"
		if i == len(prog.Blocks)-1 {
			prefix = "└─"
		}
		c := colors[blk.Name]
		exp, nexp := blk.Exposure()
		line := fmt.Sprintf("%s %s%s%s [%s] %.0fsx%d - %s", prefix, c, blk.Name, colorReset, strings.Join(blk.Filters, ""), exp, nexp, blk.Description)
		if wrap && width > 0 {
			line = wordwrap.String(line, width)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderSummary() string {
	var filterParts []string
	for _, f := range m.opts.Filters {
		c := filterColors[f]
		if c == "" {
			c = colorWhite
		}
		filterParts = append(filterParts, fmt.Sprintf("%s%s%s=%d", c, f, colorReset, m.filterCounts[f]))
	}
	filters := strings.Join(filterParts, " ")
	summary := fmt.Sprintf("%sSUMMARY%s %svisits=%d%s %srejections=%d%s %sfields=%d%s",
		colorBlue, colorReset,
		colorGreen, m.totalVisits, colorReset,
		colorRed, m.totalRejects, colorReset,
		colorMagenta, len(m.fieldMarks), colorReset)
	if filters != "" {
		summary = fmt.Sprintf("%s [%s]", summary, filters)
	}
	return summary
}

func (m tuiModel) renderBottom() string {
	adminColor := lipgloss.Color("9")
	if m.admin {
		adminColor = lipgloss.Color("10")
	}
	wrapColor := lipgloss.Color("9")
	if m.wrap {
		wrapColor = lipgloss.Color("10")
	}
	scrollColor := lipgloss.Color("10")
	if !m.autoscroll {
		scrollColor = lipgloss.Color("9")
	}
	adminIndicator := lipgloss.NewStyle().Foreground(adminColor).Render("●")
	wrapIndicator := lipgloss.NewStyle().Foreground(wrapColor).Render("●")
	scrollIndicator := lipgloss.NewStyle().Foreground(scrollColor).Render("●")
	summaryColor := lipgloss.Color("9")
	if m.summary {
		summaryColor = lipgloss.Color("10")
	}
	summaryIndicator := lipgloss.NewStyle().Foreground(summaryColor).Render("●")
	helpColor := lipgloss.Color("9")
	if m.help {
		helpColor = lipgloss.Color("10")
	}
	helpIndicator := lipgloss.NewStyle().Foreground(helpColor).Render("●")
	blocksColor := lipgloss.Color("10")
	if !m.showBlocks {
		blocksColor = lipgloss.Color("9")
	}
	blocksIndicator := lipgloss.NewStyle().Foreground(blocksColor).Render("●")
	state := fmt.Sprintf("%sSTATE%s %snight=%d%s %smjd=%.4f%s %sfilter=%s%s %ssun=%.1f%s %smoon=%.1f%s %sphase=%.0f%s %sclouds=%.2f%s",
		colorBlue, colorReset,
		colorYellow, m.status.Night, colorReset,
		colorGreen, m.status.MJD, colorReset,
		colorMagenta, m.status.Filter, colorReset,
		colorCyan, astro.Degrees(m.status.SunAlt), colorReset,
		colorCyan, astro.Degrees(m.status.MoonAlt), colorReset,
		colorYellow, m.status.MoonPhase, colorReset,
		colorRed, m.status.Clouds, colorReset)
	line := fmt.Sprintf("%s | Admin UI %s | Wrap %s | Scroll %s | Summary %s | Help %s | Blocks %s", state, adminIndicator, wrapIndicator, scrollIndicator, summaryIndicator, helpIndicator, blocksIndicator)
	if m.summary {
		return fmt.Sprintf("%s\n%s", m.renderSummary(), line)
	}
	return line
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle wrap for block list",
		" s  toggle auto-scroll",
		" t  toggle summary footer",
		" m  toggle all-sky view",
		" p  toggle program tree",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}

func (m tuiModel) renderSky() string {
	width := m.vp.Width
	bottomHeight := lipgloss.Height(m.renderBottom())
	mapHeight := m.height - m.headerHeight - bottomHeight - 4
	if mapHeight < 1 {
		mapHeight = 1
	}
	if width < 2 {
		return "No sky data"
	}
	grid := make([][]string, mapHeight)
	for i := range grid {
		row := make([]string, width)
		for j := range row {
			row[j] = "."
		}
		grid[i] = row
	}
	// overlay gridlines every 90 degrees of RA and 45 of declination
	const divisions = 4
	for i := 1; i < divisions; i++ {
		x := int(float64(width-1) * float64(i) / divisions)
		for y := 0; y < mapHeight; y++ {
			if grid[y][x] == "-" {
				grid[y][x] = "+"
			} else if grid[y][x] == "." {
				grid[y][x] = "|"
			}
		}
		y := int(float64(mapHeight-1) * float64(i) / divisions)
		for x2 := 0; x2 < width; x2++ {
			if grid[y][x2] == "|" {
				grid[y][x2] = "+"
			} else if grid[y][x2] == "." {
				grid[y][x2] = "-"
			}
		}
	}
	xFor := func(ra float64) int {
		return int(ra / 360 * float64(width-1))
	}
	yFor := func(dec float64) int {
		return int((90 - dec) / 180 * float64(mapHeight-1))
	}
	for _, blk := range m.prog.Blocks {
		c := m.blockColors[blk.Name]
		if c == "" {
			c = colorWhite
		}
		for _, t := range blk.Targets {
			x, y := xFor(t.RADeg), yFor(t.DecDeg)
			if y >= 0 && y < mapHeight && x >= 0 && x < width {
				grid[y][x] = fmt.Sprintf("%s%s%s", c, "o", colorReset)
			}
		}
		if len(blk.Targets) == 0 {
			for _, dec := range []float64{blk.Footprint.DecMinDeg, blk.Footprint.DecMaxDeg} {
				y := yFor(dec)
				if y < 0 || y >= mapHeight {
					continue
				}
				for x := 0; x < width; x += 4 {
					grid[y][x] = fmt.Sprintf("%s%s%s", c, "o", colorReset)
				}
			}
		}
	}
	for _, mark := range m.fieldMarks {
		x, y := xFor(mark.ra), yFor(mark.dec)
		if y < 0 || y >= mapHeight || x < 0 || x >= width {
			continue
		}
		c := filterColors[mark.filter]
		if c == "" {
			c = colorWhite
		}
		grid[y][x] = fmt.Sprintf("%s%s%s", c, "+", colorReset)
	}
	if m.havePointing {
		x, y := xFor(m.pointing.ra), yFor(m.pointing.dec)
		if y >= 0 && y < mapHeight && x >= 0 && x < width {
			grid[y][x] = fmt.Sprintf("%s%s%s", colorWhite, "@", colorReset)
		}
	}
	var b strings.Builder
	b.WriteString("ra 0..360 dec +90..-90\n")
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	var legendParts []string
	for _, f := range m.opts.Filters {
		if c, ok := filterColors[f]; ok {
			legendParts = append(legendParts, fmt.Sprintf("%s+%s=%s", c, colorReset, f))
		}
	}
	legendParts = append(legendParts, fmt.Sprintf("%s@%s=pointing", colorWhite, colorReset))
	legendParts = append(legendParts, "o=footprint")
	b.WriteString(strings.Join(legendParts, " "))
	return strings.TrimRight(b.String(), "\n")
}
