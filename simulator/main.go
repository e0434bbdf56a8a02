// Command simulator runs the player on a desktop: frames are printed to
// stdout, keys are read from stdin one per line and the USB interface and
// script player are simulated in memory. With -listen the display state and
// key input are also exposed over HTTP under /api/v1/.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rook-computer/keyplayer/internal/app"
	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/logging"
	"github.com/rook-computer/keyplayer/internal/notify"
	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/script"
	"github.com/rook-computer/keyplayer/internal/settings"
	"github.com/rook-computer/keyplayer/internal/state"
	"github.com/rook-computer/keyplayer/internal/system"
	"github.com/rook-computer/keyplayer/internal/usb"
	"github.com/rook-computer/keyplayer/internal/web"
)

func main() {
	serverDefaults, err := web.DefaultServerConfigFromEnv("")
	if err != nil {
		fmt.Println("server config error:", err)
		return
	}

	baseDir := flag.String("base-dir", "/tmp/keyplayer-sim/badusb", "script folder")
	layoutDir := flag.String("layout-dir", "", "layout folder (default <base-dir>/assets/layouts)")
	busy := flag.Bool("busy", false, "start with the usb interface locked by another consumer")
	lineDelay := flag.Duration("line-delay", 200*time.Millisecond, "simulated time per script line")
	tick := flag.Duration("tick", 500*time.Millisecond, "refresh interval")
	notifier := flag.String("notifier", "", "run this command with the event name on script events")
	logLevel := flag.String("log-level", "info", "debug|info|warn|error")
	listenAddr := flag.String("listen", serverDefaults.ListenAddr, "serve the remote-control API on this address (e.g. :8080); also configurable via KEYPLAYER_LISTEN")
	devMode := flag.Bool("dev", serverDefaults.DevMode, "allow cross-origin API requests; also configurable via KEYPLAYER_DEV")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Println(err)
		level = slog.LevelInfo
	}
	logger := logging.New(os.Stderr, level, "text")

	if *layoutDir == "" {
		*layoutDir = filepath.Join(*baseDir, "assets", "layouts")
	}
	if err := os.MkdirAll(*layoutDir, 0o755); err != nil {
		logger.Errorf("sim", "layout dir: %v", err)
		return
	}

	port := usb.NewMemoryPort("mass_storage")
	port.SetLocked(*busy)

	store := settings.NewStore(filepath.Join(*baseDir, ".badusb.settings"), filepath.Join(*layoutDir, "en-US.kl"))
	store.Logger = logger

	var notes notify.Notifier = notify.NoopNotifier{}
	if *notifier != "" {
		notes = notify.NewScriptNotifier(system.ShellRunner{Logger: logger, NoSudo: true}, *notifier, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots := state.NewStore()
	var keys input.Source = input.NewLineSource(os.Stdin)
	var server web.Server = web.NoopServer{}
	if *listenAddr != "" {
		remote := input.NewRemoteSource(16)
		keys = input.Merge(keys, remote)
		httpServer := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode},
			web.NewDefaultMux(web.APIV1Config{State: snapshots, Keys: remote}))
		httpServer.Logger = logger
		server = httpServer
	}
	if err := server.Start(ctx); err != nil {
		logger.Errorf("sim", "remote api: %v", err)
		return
	}
	defer server.Stop()

	fmt.Println("keys: w/s up/down, a/d left/right, e or empty line ok, q back")
	err = app.Execute(ctx, app.Options{
		TargetPath:   flag.Arg(0),
		BaseFolder:   *baseDir,
		LayoutFolder: *layoutDir,
		HelpURL:      "https://docs.flipper.net/bad-usb",
		TickInterval: *tick,
		Settings:     store,
		Port:         port,
		Engine:       script.NewDryRunEngine(clockwork.NewRealClock(), *lineDelay),
		Renderer:     render.NewTextRenderer(os.Stdout),
		Input:        keys,
		Notifier:     notes,
		Logger:       logger,
		Store:        snapshots,
	})
	if err != nil {
		logger.Errorf("sim", "%v", err)
	}
	logger.Infof("sim", "usb history: %v", port.History())
}
