// Command zonerender replays a pointer script through the zone editor
// without a window, writes the result as a PNG and prints emitted events as
// JSON lines.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"zone-editor/internal/app"
	"zone-editor/internal/config"
	"zone-editor/internal/logging"
	"zone-editor/internal/version"
)

type eventLine struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

func main() {
	framePath := flag.String("frame", "", "Reference frame (image or video)")
	zonesPath := flag.String("zones", "", "Initial zones JSON file")
	scriptPath := flag.String("script", "", "Pointer script file (- for stdin)")
	configPath := flag.String("config", "", "TOML config file")
	outPath := flag.String("out", "zones.png", "Output PNG path")
	saveZones := flag.String("save", "", "Write resulting zones to this JSON file")
	width := flag.Int("width", 960, "Display width")
	height := flag.Int("height", 540, "Display height")
	verbose := flag.Bool("v", false, "Debug logging to stderr")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("zonerender"))
		return
	}
	if *framePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: zonerender -frame <path> [-zones zones.json] [-script steps.txt] [-out out.png]")
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level, "text")

	if err := render(*framePath, *zonesPath, *scriptPath, *configPath, *outPath, *saveZones, *width, *height, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "zonerender: %v\n", err)
		os.Exit(1)
	}
}

func render(framePath, zonesPath, scriptPath, configPath, outPath, savePath string, width, height int, events io.Writer, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	session, err := app.NewSession(cfg, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(events)
	for _, et := range []app.EventType{app.EventFrameLoaded, app.EventFrameFailed, app.EventZonesChanged, app.EventSelectionChanged} {
		et := et
		session.On(et, func(data interface{}) {
			if err, ok := data.(error); ok {
				data = err.Error()
			}
			_ = enc.Encode(eventLine{Event: et.String(), Data: data})
		})
	}

	session.SetDisplaySize(float64(width), float64(height))
	if err := session.LoadFrame(context.Background(), framePath); err != nil {
		return err
	}
	if zonesPath != "" {
		if err := session.LoadZones(zonesPath); err != nil {
			return err
		}
	}

	if scriptPath != "" {
		steps, err := readScript(scriptPath)
		if err != nil {
			return err
		}
		run(session, steps, func(st step, err error) {
			logger.Warn("step rejected", "line", st.line, "command", st.verb, "error", err)
		})
	}

	if savePath != "" {
		if err := session.SaveZones(savePath); err != nil {
			return err
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, session.Image(width, height)); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

func readScript(path string) ([]step, error) {
	if path == "-" {
		return parseScript(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return parseScript(f)
}
