package platform

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/exp/maps"

	c "lautenbacher.net/luxmon/config"
	"lautenbacher.net/luxmon/logging"
)

const (
	simLevelStep = 50
	simLevelMax  = 4095
)

// TUIPlatform simulates the hardware on the terminal: the two-line character
// display is drawn as a pane, the alarm output as a colored indicator, and
// the light level is adjusted with the keyboard instead of an ADC.
type TUIPlatform struct {
	config       *c.Config
	tviewapp     *tview.Application
	intro        *tview.TextView
	lcdView      *tview.TextView
	logView      *tview.TextView
	ossignalChan chan os.Signal
	readyChan    chan bool
	logFlushOnce sync.Once
	history      *History
	presets      map[string]int

	mu       sync.Mutex
	simLevel int
	line1    string
	line2    string
	alarmOn  bool
}

func NewTUIPlatform(conf *c.Config, ossignalchan chan os.Signal) *TUIPlatform {
	return &TUIPlatform{
		config:       conf,
		ossignalChan: ossignalchan,
		readyChan:    make(chan bool),
		history:      NewHistory(),
		simLevel:     2000,
		presets: map[string]int{
			"1": 80,   // dark enough to trip the low threshold
			"2": 500,  // dim but in range
			"3": 2000, // normal room light
			"4": 3900, // bright enough to trip the high threshold
		},
	}
}

func (s *TUIPlatform) Ready() <-chan bool {
	return s.readyChan
}

func (s *TUIPlatform) ReadIntensity() int {
	s.mu.Lock()
	level := s.simLevel
	s.mu.Unlock()
	s.history.Push(level)
	return level
}

func (s *TUIPlatform) Render(line1, line2 string) {
	s.mu.Lock()
	s.line1 = line1
	s.line2 = line2
	s.mu.Unlock()
	s.tviewapp.QueueUpdateDraw(s.redrawLCD)
}

func (s *TUIPlatform) SetAlarm(on bool) {
	s.mu.Lock()
	s.alarmOn = on
	s.mu.Unlock()
	s.tviewapp.QueueUpdateDraw(s.redrawLCD)
}

func (s *TUIPlatform) Start() error {
	s.initSimulationTUI()
	return nil
}

func (s *TUIPlatform) Stop() {
	if s.tviewapp != nil {
		s.tviewapp.Stop()
	}
}

// getIntroText generates the dynamic text for the top info pane.
func (s *TUIPlatform) getIntroText() string {
	s.mu.Lock()
	level := s.simLevel
	s.mu.Unlock()

	keys := maps.Keys(s.presets)
	sort.Strings(keys)
	var presets []string
	for _, k := range keys {
		presets = append(presets, fmt.Sprintf("[blue]%s[-]=%d", k, s.presets[k]))
	}

	line1 := fmt.Sprintf("Light level: [#ffff00]%-4d[white] | Hit [#ff0000]+[white]/[#ff0000]-[white] to change", level)
	line2 := "Presets: " + strings.Join(presets, "  ")
	line3 := "Hit [#ff0000]q[-] to exit, [#ff0000]Up/Down[-] to scroll logs"

	return fmt.Sprintf("%s\n%s\n%s", line1, line2, line3)
}

func (s *TUIPlatform) initSimulationTUI() {
	s.tviewapp = tview.NewApplication()

	// --- Intro Pane ---
	s.intro = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.intro.SetText(s.getIntroText())
	s.intro.SetBorder(true).SetTitle(" LUXMON Simulation ").SetTitleColor(tcell.ColorLightBlue)
	s.intro.SetBackgroundColor(tcell.NewRGBColor(20, 20, 20))

	// --- LCD Pane ---
	s.lcdView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.lcdView.SetBorder(true).SetTitle(" Display ").SetTitleColor(tcell.ColorLightBlue)
	s.lcdView.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))

	// --- Log Pane ---
	s.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			s.logView.ScrollToEnd()
			s.tviewapp.Draw()
		})
	s.logView.SetBorder(true).SetTitle(" Logs ").SetTitleColor(tcell.ColorLightBlue)
	s.logView.SetBackgroundColor(tcell.NewRGBColor(40, 40, 40))

	// --- Layout ---
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.intro, 5, 0, false).
		AddItem(s.lcdView, 7, 0, false).
		AddItem(s.logView, 0, 1, true) // Flexible height, gets focus

	// --- Flush logs after first draw ---
	s.tviewapp.SetAfterDrawFunc(func(screen tcell.Screen) {
		s.logFlushOnce.Do(func() {
			logWriter := tview.ANSIWriter(s.logView)
			logging.SetOutput(logWriter)
			close(s.readyChan) // Signal that the TUI is ready
		})
	})

	// --- Input Handling ---
	s.tviewapp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			s.tviewapp.Stop()
			s.ossignalChan <- os.Interrupt
			return nil
		case tcell.KeyRune:
			key := string(event.Rune())
			if level, exist := s.presets[key]; exist {
				slog.Debug("Setting simulated light level", "level", level)
				s.setSimLevel(level)
				return nil
			}
			switch key {
			case "q", "Q":
				s.ossignalChan <- os.Interrupt
				return nil
			case "+":
				s.adjustSimLevel(simLevelStep)
				return nil
			case "-":
				s.adjustSimLevel(-simLevelStep)
				return nil
			}
		case tcell.KeyUp:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row-1, col)
			return nil
		case tcell.KeyDown:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row+1, col)
			return nil
		}
		return event
	})

	// --- Start TUI ---
	go func() {
		if err := s.tviewapp.SetRoot(layout, true).Run(); err != nil {
			slog.Error("Error running TUI", "error", err)
			s.ossignalChan <- os.Interrupt
		}
	}()
}

func (s *TUIPlatform) setSimLevel(level int) {
	s.mu.Lock()
	s.simLevel = level
	s.mu.Unlock()
	s.intro.SetText(s.getIntroText())
}

func (s *TUIPlatform) adjustSimLevel(delta int) {
	s.mu.Lock()
	s.simLevel = min(max(s.simLevel+delta, 0), simLevelMax)
	s.mu.Unlock()
	s.intro.SetText(s.getIntroText())
}

// redrawLCD redraws the display pane. Must be called on the TUI thread via
// app.QueueUpdateDraw().
func (s *TUIPlatform) redrawLCD() {
	s.mu.Lock()
	line1, line2, alarmOn := s.line1, s.line2, s.alarmOn
	s.mu.Unlock()

	columns := s.config.Display.Columns
	border := "+" + strings.Repeat("-", columns) + "+"

	var buf strings.Builder
	buf.WriteString(border + "\n")
	buf.WriteString(fmt.Sprintf("|%-*s|\n", columns, line1))
	buf.WriteString(fmt.Sprintf("|%-*s|\n", columns, line2))
	buf.WriteString(border + "\n")

	if alarmOn {
		buf.WriteString("[#ff0000]** ALARM **[-]")
	} else if min, max, mean, ok := s.history.Stats(); ok {
		buf.WriteString(fmt.Sprintf("min %d  max %d  mean %.1f", min, max, mean))
	}

	s.lcdView.SetText(buf.String())
}
