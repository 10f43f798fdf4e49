package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jivescope/internal/audio"
	"github.com/linuxmatters/jivescope/internal/cli"
	"github.com/linuxmatters/jivescope/internal/config"
	"github.com/linuxmatters/jivescope/internal/ui"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	Input          string          `arg:"" name:"input" help:"Input audio file (WAV, MP3 or FLAC)" optional:""`
	Window         int             `help:"Frames per analysis window" default:"${window}" group:"analysis"`
	Bins           int             `help:"Spectrum bins per channel" default:"${bins}" group:"analysis"`
	WindowFunction string          `help:"Analysis window" default:"${window_function}" enum:"hann,blackman-harris" group:"analysis"`
	FPS            int             `name:"fps" help:"Display frames per second" default:"${fps}" group:"playback"`
	Volume         float64         `help:"Playback volume from 0.0 to 1.0" default:"${volume}" group:"playback"`
	Mute           bool            `help:"Visualise without audio output" group:"playback"`
	Color          string          `help:"Bar colour as hex RRGGBB" placeholder:"HEX" group:"appearance"`
	TextColor      string          `help:"Title colour as hex RRGGBB" placeholder:"HEX" group:"appearance"`
	Title          string          `help:"Title shown in the UI and on snapshots" group:"appearance"`
	Snapshot       string          `help:"Render a single frame to this PNG and exit" placeholder:"PATH" group:"snapshot"`
	At             float64         `help:"Snapshot position in seconds" default:"0" placeholder:"SECONDS" group:"snapshot"`
	Background     string          `help:"PNG background for snapshots" placeholder:"PATH" group:"snapshot"`
	Font           string          `help:"TrueType font for the snapshot title" placeholder:"PATH" group:"snapshot"`
	Preview        bool            `help:"Print a terminal preview of the snapshot" group:"snapshot"`
	Config         kong.ConfigFlag `help:"YAML file of flag defaults" placeholder:"FILE"`
	Version        bool            `help:"Show version information"`
}

// Help section titles for the group tags above
var groups = kong.Groups{
	"analysis":   "Analysis\nHow each frame of audio becomes a spectrum.",
	"playback":   "Playback",
	"appearance": "Appearance",
	"snapshot":   "Snapshot\nSet --snapshot to render one PNG instead of playing.",
}

func main() {
	defaults := config.DefaultAnalysis()
	ctx := kong.Parse(&CLI,
		kong.Name("jivescope"),
		kong.Description("Play an audio file and watch its stereo spectrum in the terminal."),
		kong.Vars{
			"version":         version,
			"window":          strconv.Itoa(defaults.WindowSize),
			"bins":            strconv.Itoa(defaults.Bins),
			"window_function": defaults.WindowFunction,
			"fps":             strconv.Itoa(config.DefaultFPS),
			"volume":          strconv.FormatFloat(config.DefaultVolume, 'f', -1, 64),
		},
		groups,
		kong.Configuration(config.YAMLLoader),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate required arguments when not showing version
	if CLI.Input == "" {
		cli.PrintError("<input> is required")
		os.Exit(1)
	}

	// Validate input file exists
	if _, err := os.Stat(CLI.Input); os.IsNotExist(err) {
		cli.PrintError(fmt.Sprintf("input file does not exist: %s", CLI.Input))
		os.Exit(1)
	}

	rc, err := runtimeConfig()
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	audio.Warnf = func(format string, args ...any) {
		cli.PrintWarning(fmt.Sprintf(format, args...))
	}

	_ = ctx // Kong context available for future use

	if CLI.Snapshot != "" {
		err = snapshot(CLI.Input, rc)
	} else {
		err = play(CLI.Input, rc)
	}
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// runtimeConfig gathers the parsed flags into a validated RuntimeConfig
func runtimeConfig() (*config.RuntimeConfig, error) {
	rc := &config.RuntimeConfig{
		Analysis: config.Analysis{
			WindowSize:     CLI.Window,
			Bins:           CLI.Bins,
			WindowFunction: CLI.WindowFunction,
		},
		FPS:    CLI.FPS,
		Volume: CLI.Volume,
		Mute:   CLI.Mute,
		Title:  CLI.Title,
	}

	if CLI.Color != "" {
		if err := rc.SetBarColor(CLI.Color); err != nil {
			return nil, fmt.Errorf("--color: %w", err)
		}
	}
	if CLI.TextColor != "" {
		if err := rc.SetTextColor(CLI.TextColor); err != nil {
			return nil, fmt.Errorf("--text-color: %w", err)
		}
	}

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

// play runs the live terminal visualiser until the file ends or the user quits
func play(input string, rc *config.RuntimeConfig) error {
	meta, err := audio.ProbeMetadata(input)
	if err != nil {
		return err
	}
	printInput(input, meta, rc)

	// Analysis reads its own decoder so it never competes with the device
	dec, err := audio.OpenDecoder(input)
	if err != nil {
		return fmt.Errorf("opening audio stream: %w", err)
	}
	defer dec.Close()

	var transport ui.Transport
	var player *audio.Player

	if !rc.Mute {
		playDec, err := audio.OpenDecoder(input)
		if err != nil {
			return fmt.Errorf("opening audio stream: %w", err)
		}
		defer playDec.Close()

		player, err = audio.NewPlayer(playDec, rc.Volume)
		switch {
		case errors.Is(err, audio.ErrDeviceUnavailable):
			cli.PrintWarning(fmt.Sprintf("%v; continuing without sound", err))
			player = nil
		case err != nil:
			return err
		default:
			defer player.Close()
			transport = player
		}
	}
	if transport == nil {
		transport = ui.NewMutedTransport(audio.NewWallClock(), meta.Duration, rc.Volume)
	}

	stream := audio.NewSampleStream(dec, audio.DefaultChunkSamples)
	pipeline, err := audio.NewPipeline(stream, transport, dec.NumChannels(), dec.SampleRate(), rc.Analysis)
	if err != nil {
		return err
	}

	title := rc.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	model := ui.NewModel(pipeline, transport, ui.Session{
		Title:      title,
		SampleRate: meta.SampleRate,
		Channels:   meta.Channels,
		Duration:   meta.Duration,
		FPS:        rc.FPS,
	})

	transport.Play()
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	fmt.Println(model.Summary())
	if transport.Finished() {
		cli.PrintSuccess(fmt.Sprintf("Reached the end of %s", title))
	}

	if player != nil {
		if err := player.Err(); err != nil {
			cli.PrintWarning(fmt.Sprintf("playback stopped early: %v", err))
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("decoding %s: %w", input, err)
	}
	return nil
}

// snapshot renders the spectrum at --at to a PNG
func snapshot(input string, rc *config.RuntimeConfig) error {
	start := time.Now()
	at := time.Duration(CLI.At * float64(time.Second))

	meta, err := audio.ProbeMetadata(input)
	if err != nil {
		return err
	}
	cli.PrintBanner()
	printInput(input, meta, rc)
	fmt.Println()

	res, err := renderSnapshot(input, rc, snapshotOptions{
		Output:     CLI.Snapshot,
		At:         at,
		Background: CLI.Background,
		Font:       CLI.Font,
	})
	if err != nil {
		return err
	}

	if res.Partial {
		cli.PrintWarning(fmt.Sprintf("only %d of %d frames were available at %s", res.Frames, rc.Analysis.WindowSize, cli.FormatDuration(at)))
	}

	var size int64
	if info, err := os.Stat(CLI.Snapshot); err == nil {
		size = info.Size()
	}
	cli.PrintSuccess(fmt.Sprintf("Snapshot saved to %s", CLI.Snapshot))
	cli.PrintSnapshotSummary(CLI.Snapshot, at, rc.Analysis.Bins, size, time.Since(start))

	if CLI.Preview {
		fmt.Print(ui.RenderPreview(ui.DownsampleFrame(res.Image, ui.DefaultPreviewConfig()), "Snapshot"))
	}
	return nil
}

func printInput(input string, meta *audio.Metadata, rc *config.RuntimeConfig) {
	cli.PrintInput(cli.InputInfo{
		Path:       input,
		SampleRate: meta.SampleRate,
		Channels:   meta.Channels,
		Duration:   meta.Duration,
		Window:     rc.Analysis.WindowSize,
		Bins:       rc.Analysis.Bins,
	})
}
