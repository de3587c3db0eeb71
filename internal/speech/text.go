package speech

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hammamikhairi/yojana/internal/domain"
)

// MaxTextBytes bounds the text sent to the speech model.
const MaxTextBytes = 10000

const instructionTemplate = "Read this information for a villager in %s clearly: %s"

// Instruction renders the speech instruction for text in lang.
func Instruction(text string, lang domain.Language) string {
	return fmt.Sprintf(instructionTemplate, lang.Name(), text)
}

var ansiCodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// NormalizeText prepares text for synthesis: line endings become LF,
// terminal escapes and control characters are dropped, trailing blanks
// are trimmed and runs of blank lines collapse to one.
func NormalizeText(input string) (string, error) {
	s := ansiCodes.ReplaceAllString(input, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if r < 32 || r == 127 {
			continue
		}
		b.WriteRune(r)
	}

	var out []string
	blank := false
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	clean := strings.TrimSpace(strings.Join(out, "\n"))

	switch {
	case clean == "":
		return "", domain.Validationf("normalize text", "text is empty")
	case len(clean) > MaxTextBytes:
		return "", domain.Validationf("normalize text", "text is %d bytes, limit is %d", len(clean), MaxTextBytes)
	}
	return clean, nil
}
