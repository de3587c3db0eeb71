package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/yojana/internal/audio"
)

var decodeOut string

var decodeCmd = &cobra.Command{
	Use:   "decode <file|->",
	Short: "Decode a base64 PCM16 payload",
	Long: `Decode a speech payload (base64 of 16-bit little-endian mono PCM at
24 kHz) and print its length. A WAV file is accepted as well.

Examples:
  yojana decode reply.b64
  cat reply.b64 | yojana decode - --out reply.wav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		buf, err := decodeAudio(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "samples=%d duration=%s\n", buf.Len(), buf.Duration())
		if decodeOut != "" {
			return writeWAVFile(decodeOut, buf)
		}
		return nil
	},
}

func init() {
	decodeCmd.Flags().StringVar(&decodeOut, "out", "", "write the decoded audio to this WAV file")
	rootCmd.AddCommand(decodeCmd)
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

// decodeAudio accepts either a RIFF/WAVE file or base64 text.
func decodeAudio(data []byte) (*audio.Buffer, error) {
	if bytes.HasPrefix(data, []byte("RIFF")) {
		pcm, err := audio.ExtractPCM(data)
		if err != nil {
			return nil, err
		}
		return audio.DecodePCMBytes(pcm)
	}
	return audio.DecodePCM(string(bytes.Join(bytes.Fields(data), nil)))
}
