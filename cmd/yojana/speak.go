package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/yojana/internal/audio"
	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/speech"
)

var (
	speakText       string
	speakSchemeFile string
	speakOut        string
	speakPlay       bool
)

var speakCmd = &cobra.Command{
	Use:   "speak",
	Short: "Synthesize speech for a text or a scheme",
	Long: `Read a text aloud with the configured voice.

--scheme-file takes one scheme in YAML or JSON (as printed by
"yojana recommend --format yaml") and reads its description.

Examples:
  yojana speak --text "PM-Kisan gives 6000 rupees a year" --lang en --out kisan.wav
  yojana speak --scheme-file kisan.yaml --lang gu --play`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		text, err := speakInput()
		if err != nil {
			return err
		}

		a, err := setup("")
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		gem, err := a.gemini(ctx)
		if err != nil {
			return err
		}
		payload, err := a.synthesizer(gem).SynthesizeSpeech(ctx, text, a.cfg.Lang())
		if err != nil {
			return err
		}
		buf, err := audio.DecodePCM(payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "samples=%d duration=%s\n", buf.Len(), buf.Duration())

		if speakOut != "" {
			if err := writeWAVFile(speakOut, buf); err != nil {
				return err
			}
		}
		if speakPlay {
			p := speech.NewPlayer(speech.NewSession(a.log), a.log)
			if err := p.Play(ctx, buf); err != nil && ctx.Err() == nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	fl := speakCmd.Flags()
	fl.StringVar(&speakText, "text", "", "text to read aloud")
	fl.StringVar(&speakSchemeFile, "scheme-file", "", "YAML or JSON file with one scheme")
	fl.StringVar(&speakOut, "out", "", "write the audio to this WAV file")
	fl.BoolVar(&speakPlay, "play", false, "play the audio on the default output device")
	speakCmd.MarkFlagsMutuallyExclusive("text", "scheme-file")
	rootCmd.AddCommand(speakCmd)
}

func speakInput() (string, error) {
	switch {
	case speakText != "":
		return speakText, nil
	case speakSchemeFile != "":
		data, err := os.ReadFile(speakSchemeFile)
		if err != nil {
			return "", fmt.Errorf("scheme: %w", err)
		}
		return schemeText(data)
	default:
		return "", errors.New("one of --text or --scheme-file is required")
	}
}

// schemeText returns the description of the scheme encoded in data.
func schemeText(data []byte) (string, error) {
	var s domain.Scheme
	if err := yaml.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("scheme: %w", err)
	}
	if s.Description == "" {
		return "", errors.New("scheme: no description")
	}
	return s.Description, nil
}

func writeWAVFile(path string, buf *audio.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(f, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
