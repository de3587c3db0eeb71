package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/yojana/internal/config"
	"github.com/hammamikhairi/yojana/internal/display"
	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/engine"
	"github.com/hammamikhairi/yojana/internal/gemini"
	"github.com/hammamikhairi/yojana/internal/logger"
	"github.com/hammamikhairi/yojana/internal/recommend"
	"github.com/hammamikhairi/yojana/internal/speech"
	"github.com/hammamikhairi/yojana/internal/storage"
)

// defaultUILogFile keeps log lines out of the terminal while the TUI runs.
const defaultUILogFile = ".yojana-logs/yojana.log"

var (
	configFile string
	langFlag   string
	verbose    bool
	quiet      bool
	logFile    string
	noSpeech   bool
)

var rootCmd = &cobra.Command{
	Use:   "yojana",
	Short: "Find government welfare schemes for a villager profile",
	Long: `yojana: welfare scheme recommendations in Gujarati, Hindi and English.

Without a subcommand it opens the terminal UI: log in with a mobile number,
fill in the profile, browse the recommended schemes and listen to them.

Commands:
  recommend  Print recommendations for a profile given as flags
  speak      Synthesize speech for a text and save or play it
  decode     Decode a base64 PCM16 payload
  prompt     Print the prompts without calling the network

Configuration is read from yojana.yaml (., ./configs, ~/.config/yojana),
.env and YOJANA_* variables. The API key comes from GEMINI_API_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUI,
}

// Execute runs the root command bound to ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: search for yojana.yaml)")
	pf.StringVar(&langFlag, "lang", "", "language: gu, hi or en (default from config)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose/debug logging")
	pf.BoolVar(&quiet, "quiet", false, "disable all logging")
	pf.StringVar(&logFile, "log-file", "", "file to write logs to (\"stderr\" for the console)")

	rootCmd.Flags().BoolVar(&noSpeech, "no-speech", false, "disable read-aloud")
}

// ── Wiring ───────────────────────────────────────────────────────

// app holds what every command needs: configuration and a logger.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	closers []io.Closer
}

// setup loads configuration and opens the log output. defaultLog is used
// when neither --log-file nor log.file is set; empty means stderr.
func setup(defaultLog string) (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if langFlag != "" {
		lang, err := domain.ParseLanguage(langFlag)
		if err != nil {
			return nil, fmt.Errorf("--lang: %w", err)
		}
		cfg.Language = string(lang)
	}

	level := cfg.LogLevel()
	if verbose {
		level = logger.LevelVerbose
	}
	if quiet {
		level = logger.LevelOff
	}

	a := &app{cfg: cfg}
	path := logFile
	if path == "" {
		path = cfg.Log.File
	}
	if path == "" {
		path = defaultLog
	}

	var out io.Writer = os.Stderr
	if path != "" && path != "stderr" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("log dir: %w", err)
			}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		} else {
			out = f
			a.closers = append(a.closers, f)
		}
	}

	// Third-party packages log through the standard logger.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	a.log = logger.New(level, out)
	return a, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		c.Close()
	}
}

func (a *app) gemini(ctx context.Context) (*gemini.Client, error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return gemini.NewClient(ctx, a.cfg.APIKey, a.log,
		gemini.WithTextModel(a.cfg.TextModel),
		gemini.WithSpeechModel(a.cfg.SpeechModel),
		gemini.WithTimeout(a.cfg.RequestTimeout),
		gemini.WithMaxRetries(a.cfg.MaxRetries),
		gemini.WithBreaker(a.cfg.Breaker.Failures, a.cfg.Breaker.Cooldown),
		gemini.WithBaseURL(a.cfg.BaseURL),
	)
}

func (a *app) recommender(gen domain.StructuredGenerator) *recommend.Client {
	return recommend.NewClient(gen, a.log, recommend.WithLimit(a.cfg.TopN))
}

func (a *app) synthesizer(gen domain.SpeechGenerator) *speech.Synthesizer {
	return speech.NewSynthesizer(gen, a.log, speech.WithVoice(a.cfg.Voice))
}

// ── TUI ──────────────────────────────────────────────────────────

func runUI(cmd *cobra.Command, _ []string) error {
	a, err := setup(defaultUILogFile)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	gem, err := a.gemini(ctx)
	if err != nil {
		return err
	}

	store := storage.NewMemoryStore(a.log)
	eng := engine.New(a.recommender(gem), store, a.log,
		engine.WithDefaultLanguage(a.cfg.Lang()),
	)

	var player display.Player
	if !noSpeech {
		sink := speech.NewPlayer(speech.NewSession(a.log), a.log)
		ctrl := speech.NewController(a.synthesizer(gem), sink, a.log)
		defer ctrl.Close()
		player = ctrl
		a.log.Info("read-aloud enabled (model=%s, voice=%s)", gem.SpeechModel(), a.cfg.Voice)
	}

	ui := display.NewUI(eng, player, a.log,
		display.WithDarkTheme(a.cfg.Theme == "dark"),
		display.WithAltScreen(),
	)
	return ui.Run(ctx)
}
