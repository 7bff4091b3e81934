package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"tripgen/internal/config"
	"tripgen/internal/itinerary"
	appLog "tripgen/internal/log"
	"tripgen/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath   string
	serve        bool
	listen       string
	input        string
	templatePath string
	outputHTML   string
	outputPDF    string
	outputICS    string
	gotenbergURL string
	timezone     string
	debug        bool
}

func main() {
	flags := parseFlags()

	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("tripgen starting", "version", "0.1.0")

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override config file and environment.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.gotenbergURL != "" {
		conf.GotenbergURL = flags.gotenbergURL
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.serve {
		appLog.Info("effective config",
			"listen", conf.Listen,
			"timezone", conf.Timezone,
			"gotenberg_url", conf.GotenbergURL,
			"artifact_dir", conf.ArtifactDir,
			"cleanup", conf.CleanupCron,
		)
		if err := web.StartServer(ctx, conf); err != nil {
			appLog.Error("server failed", err)
			os.Exit(1)
		}
		appLog.Info("tripgen exiting")
		return
	}

	if flags.input == "" || flags.outputHTML == "" {
		appLog.Error("missing required flags", nil, "hint", "-input and -out are required unless -serve is set")
		flag.Usage()
		os.Exit(2)
	}

	templatePath := flags.templatePath
	if templatePath == "" {
		templatePath = conf.TemplatePath
	}

	res, err := itinerary.Generate(ctx, itinerary.Options{
		InputPath:    flags.input,
		TemplatePath: templatePath,
		OutputHTML:   flags.outputHTML,
		OutputPDF:    flags.outputPDF,
		OutputICS:    flags.outputICS,
		GotenbergURL: conf.GotenbergURL,
		UserTimezone: flags.timezone,
		EnvTimezone:  conf.Timezone,
	})
	if err != nil {
		appLog.Error("itinerary generation failed", err, "input", flags.input)
		os.Exit(1)
	}

	appLog.Info("HTML itinerary generated", "path", res.HTMLPath)
	if res.PDFPath != "" {
		appLog.Info("PDF itinerary generated", "path", res.PDFPath)
	}
	if res.ICSPath != "" {
		appLog.Info("calendar export generated", "path", res.ICSPath)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to config file (optional)")
	flag.BoolVar(&cfg.serve, "serve", false, "Run the upload web UI instead of a one-shot generation")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.input, "input", "", "Path to the trip.json export")
	flag.StringVar(&cfg.templatePath, "template", "", "Path to an HTML template (default: embedded template)")
	flag.StringVar(&cfg.outputHTML, "out", "", "Path to save the rendered HTML file")
	flag.StringVar(&cfg.outputPDF, "pdf", "", "If provided, path to save a PDF output")
	flag.StringVar(&cfg.outputICS, "ics", "", "If provided, path to save an iCalendar export")
	flag.StringVar(&cfg.gotenbergURL, "gotenberg-url", "", "Gotenberg HTML conversion endpoint (default: local Chromium)")
	flag.StringVar(&cfg.timezone, "timezone", "", "Display timezone override (IANA name)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
