package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/keyplayer/internal/app"
	"github.com/rook-computer/keyplayer/internal/config"
	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/logging"
	"github.com/rook-computer/keyplayer/internal/notify"
	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/script"
	"github.com/rook-computer/keyplayer/internal/settings"
	"github.com/rook-computer/keyplayer/internal/system"
	"github.com/rook-computer/keyplayer/internal/usb"
)

// The player always exits with status 0; failures are reported on screen and
// in the log.
func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via KEYPLAYER_STDIO_LOG")
	envFile := flag.String("env-file", "", "load KEYPLAYER_* variables from this file first")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [script.txt]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = cfg.StdioLog
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Println("log level:", err)
	}
	if *debug {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var port usb.Port
	port, err = usb.NewGadgetPort(cfg.GadgetDir, cfg.UDC, cfg.LockFile)
	if err != nil {
		logger.Errorf("main", "usb gadget: %v", err)
		port = usb.FailedPort{Err: err}
	}

	store := settings.NewStore(cfg.SettingsPath(), cfg.DefaultLayoutPath())
	store.Logger = logger

	renderer := render.NewFBRenderer(cfg.Framebuffer)
	renderer.Logger = logger

	restoreConsole := system.Console{Logger: logger}.Acquire()
	defer restoreConsole()

	err = app.Execute(ctx, app.Options{
		TargetPath:   flag.Arg(0),
		BaseFolder:   cfg.BaseDir,
		LayoutFolder: cfg.LayoutDir,
		HelpURL:      cfg.HelpURL,
		TickInterval: cfg.TickInterval,
		Settings:     store,
		Port:         port,
		Engine:       script.NewProcessEngine(cfg.Player, logger),
		Renderer:     renderer,
		Input:        input.NewEvdevSource(cfg.InputDevice, logger),
		Notifier:     notify.NewScriptNotifier(system.ShellRunner{Logger: logger}, cfg.Notifier, logger),
		Logger:       logger,
	})
	if err != nil {
		logger.Errorf("main", "%v", err)
	}
	logger.Infof("main", "exit")
}
