package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"study-buddy/internal/memory"
	"study-buddy/internal/models"
	"study-buddy/internal/tutor"
)

const wordWrap = 80

// session is one interactive run over a line based input
type session struct {
	ctx      context.Context
	in       *bufio.Scanner
	out      io.Writer
	tutor    *tutor.Tutor
	renderer *glamour.TermRenderer
}

func newSession(cmd *cobra.Command, t *tutor.Tutor) *session {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		log.Debug().Err(err).Msg("Markdown renderer unavailable, printing plain text")
		r = nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return &session{
		ctx:      ctx,
		in:       bufio.NewScanner(cmd.InOrStdin()),
		out:      cmd.OutOrStdout(),
		tutor:    t,
		renderer: r,
	}
}

// prompt prints label and reads one trimmed line. ok is false once input is exhausted.
func (s *session) prompt(label string) (line string, ok bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

// printMarkdown renders model output for the terminal
func (s *session) printMarkdown(text string) {
	if s.renderer != nil {
		if rendered, err := s.renderer.Render(text); err == nil {
			fmt.Fprint(s.out, rendered)
			return
		}
	}
	s.println(text)
}

func (s *session) showMemory() {
	printMemory(s.out, s.tutor.Memory())
}

func (s *session) showPeriods() {
	printPeriods(s.out)
}

func printMemory(w io.Writer, store *memory.Store) {
	if store.Len() == 0 {
		fmt.Fprintln(w, "\nNo learning patterns recorded yet.")
		return
	}
	fmt.Fprintln(w, "\nCurrent Memory:")
	fmt.Fprintln(w, store.Render())
}

func printPeriods(w io.Writer) {
	fmt.Fprintln(w, "\nAP US History Periods:")
	for i, p := range models.APPeriods {
		fmt.Fprintf(w, "%d. %s\n", i+1, p)
	}
}
