package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"syscall"

	c "lautenbacher.net/luxmon/config"
	"lautenbacher.net/luxmon/logging"
	"lautenbacher.net/luxmon/monitor"
	pl "lautenbacher.net/luxmon/platform"
	u "lautenbacher.net/luxmon/util"
)

// Task names as used in the config task table.
const (
	TASK_SAMPLER  = "Sampler"
	TASK_ALARM    = "AlarmMonitor"
	TASK_COMPOSER = "DisplayComposer"
	TASK_RENDERER = "Renderer"
	TASK_COMPUTE  = "BackgroundCompute"
)

// task is one entry of the static task table: the scheduling attributes from
// the config plus the entry point. The table is built once at startup and
// never changes; the only task that ever goes away is BackgroundCompute,
// which removes itself by returning.
type task struct {
	name     string
	priority int
	core     int
	entry    func(stop chan struct{}, wg *sync.WaitGroup)
}

type App struct {
	config     *c.Config
	platform   pl.Platform
	tasks      []task
	stopsignal chan struct{}
	shutdownWg sync.WaitGroup
	ossignal   chan os.Signal
}

func NewApp(ossignal chan os.Signal) *App {
	return &App{
		ossignal:   ossignal,
		stopsignal: make(chan struct{}),
	}
}

// initialise wires the data flow: Sampler feeds two coalescing wake signals,
// the DisplayComposer turns changed readings into messages on the bounded
// channel the Renderer drains, the AlarmMonitor watches its own wake, and
// BackgroundCompute runs beside them. Any error aborts startup before a
// single task runs.
func (a *App) initialise(conf *c.Config, platform pl.Platform) error {
	a.config = conf
	a.platform = platform

	if err := platform.Start(); err != nil {
		return fmt.Errorf("platform initialization failed: %w", err)
	}

	displayWake := u.NewAtomicEvent[monitor.Reading]()
	alarmWake := u.NewAtomicEvent[monitor.Reading]()
	messages := make(chan monitor.Message, conf.Display.ChannelCapacity)

	sampler := monitor.NewSampler(platform, conf.Sampler, displayWake, alarmWake)
	composer := monitor.NewComposer(displayWake, messages, conf.Display.Columns)
	renderer := monitor.NewRenderer(messages, platform)
	alarm := monitor.NewAlarmMonitor(alarmWake, platform, conf.Alarm)
	compute := monitor.NewCompute(conf.Compute, nil)

	a.tasks = a.buildTaskTable(map[string]func(chan struct{}, *sync.WaitGroup){
		TASK_SAMPLER:  sampler.Run,
		TASK_ALARM:    alarm.Run,
		TASK_COMPOSER: composer.Run,
		TASK_RENDERER: renderer.Run,
		TASK_COMPUTE:  compute.Run,
	})

	// Goroutines cannot be pinned to a core; the core column of the task
	// table instead bounds how many run in parallel.
	cores := make(map[int]bool)
	for _, t := range a.tasks {
		cores[t.core] = true
	}
	runtime.GOMAXPROCS(max(len(cores), 1))

	return nil
}

// buildTaskTable assembles the static task table, ordered by descending
// priority so higher priority tasks are brought up first.
func (a *App) buildTaskTable(entries map[string]func(chan struct{}, *sync.WaitGroup)) []task {
	tasks := make([]task, 0, len(entries))
	for _, name := range []string{TASK_SAMPLER, TASK_ALARM, TASK_COMPOSER, TASK_RENDERER, TASK_COMPUTE} {
		cfg := a.config.Tasks[name]
		tasks = append(tasks, task{
			name:     name,
			priority: cfg.Priority,
			core:     cfg.Core,
			entry:    entries[name],
		})
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].priority > tasks[j].priority
	})
	return tasks
}

// start waits for the platform to become ready and launches the task set.
func (a *App) start() {
	<-a.platform.Ready()

	slog.Info("Starting luxmon",
		"config", a.config.Configfile,
		"period", a.config.Sampler.Period.Duration,
		"thresholds", fmt.Sprintf("[%d, %d]", a.config.Alarm.LowThreshold, a.config.Alarm.HighThreshold))
	for _, t := range a.tasks {
		slog.Info("Starting task", "name", t.name, "priority", t.priority, "core", t.core)
		a.shutdownWg.Add(1)
		go t.entry(a.stopsignal, &a.shutdownWg)
	}
}

func (a *App) shutdown() {
	close(a.stopsignal)
	a.shutdownWg.Wait()
	a.platform.Stop()
}

func main() {
	realp := flag.Bool("real", false, "Set to true if the program runs on the real hardware")
	cfile := flag.String("config", c.CONFILE, "Path to the config file")
	flag.Parse()

	conf, err := c.ReadConfig(*cfile, *realp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// The TUI owns the terminal, so logs are buffered until its log pane
	// is up. On real hardware they go straight out.
	if err := logging.Init(!conf.RealHW, conf.Logging.Level, conf.Logging.Format, conf.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "Can't initialize logging: %v\n", err)
		os.Exit(2)
	}
	defer logging.Close()

	ossignal := make(chan os.Signal, 1)

	var platform pl.Platform
	if conf.RealHW {
		platform = pl.NewRPiPlatform(conf)
	} else {
		platform = pl.NewTUIPlatform(conf, ossignal)
	}

	app := NewApp(ossignal)
	if err := app.initialise(conf, platform); err != nil {
		slog.Error("Startup failed, no task was started", "error", err)
		logging.Close()
		os.Exit(1)
	}

	signal.Notify(ossignal, os.Interrupt, syscall.SIGTERM)
	app.start()

	sig := <-ossignal
	slog.Info("Shutting down...", "signal", sig.String())
	app.shutdown()
}
