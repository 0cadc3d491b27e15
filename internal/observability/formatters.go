// Package observability provides the CLI's human-readable output and logger setup.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/content-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// wrap splits line into pieces of at most width runes, breaking at spaces when possible.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}
	var out []string
	var cur strings.Builder
	curLen := 0
	for _, word := range strings.Fields(line) {
		for utf8.RuneCountInString(word) > width {
			if curLen > 0 {
				out = append(out, cur.String())
				cur.Reset()
				curLen = 0
			}
			r := []rune(word)
			out = append(out, string(r[:width]))
			word = string(r[width:])
		}
		n := utf8.RuneCountInString(word)
		if curLen > 0 && curLen+1+n > width {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(word)
		curLen += n
	}
	if curLen > 0 {
		out = append(out, cur.String())
	}
	return out
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	if r := []rune(title); len(r) > inner {
		title = string(r[:inner-3]) + "..."
	}
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, piece := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(piece, inner))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintHooks outputs a numbered list of hooks.
func (p *Printer) PrintHooks(category types.HookCategory, hooks []string) {
	if len(hooks) == 0 {
		return
	}

	var sb strings.Builder
	for i, h := range hooks {
		fmt.Fprintf(&sb, "%2d. %s\n", i+1, h)
	}
	p.printBox(fmt.Sprintf("HOOKS · %s (%d)", category, len(hooks)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScript outputs a script in its three labeled sections.
func (p *Printer) PrintScript(hook string, script types.Script) {
	title := "GUION"
	if hook != "" {
		title = "GUION · " + hook
	}
	p.printBox(title, script.Format())
}

// PrintDiagnosis outputs each diagnosis item next to the answer key it feeds.
func (p *Printer) PrintDiagnosis(diagnosis types.Diagnosis) {
	if len(diagnosis) == 0 {
		return
	}

	var sb strings.Builder
	for i, item := range diagnosis {
		key := ""
		if i < len(types.AnswerKeys) {
			key = fmt.Sprintf(" [%s]", types.AnswerKeys[i])
		}
		fmt.Fprintf(&sb, "%d.%s %s\n", i+1, key, item.Question)
		fmt.Fprintf(&sb, "   %s\n", item.Diagnosis)
		if i < len(diagnosis)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("DIAGNÓSTICO", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAdCopy outputs the final copy with its CTA examples.
func (p *Printer) PrintAdCopy(result types.AdCopyResult) {
	p.printBox(fmt.Sprintf("COPY FINAL · %s", result.ContentType), result.Format())
}

// PrintProfiles lists profiles and marks the active one.
func (p *Printer) PrintProfiles(profiles []types.Profile, activeID string) {
	if len(profiles) == 0 {
		p.printBox("PERFILES", "No hay perfiles. Crea uno con 'profile create'.")
		return
	}

	var sb strings.Builder
	for _, prof := range profiles {
		marker := " "
		if prof.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %s  %s  (%d hooks, %d guiones)\n",
			marker, prof.ID, prof.Name, len(prof.SavedHooks), len(prof.SavedScripts))
	}
	p.printBox("PERFILES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs one profile's training answers and saved content counts.
func (p *Printer) PrintProfile(prof types.Profile) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %s\n", prof.ID)

	for _, step := range types.TrainingSteps {
		fmt.Fprintf(&sb, "\n%s\n", step.Title)
		for _, q := range step.Questions {
			v, _ := prof.Data.Get(step.ID, q.ID)
			if v == "" {
				v = "—"
			}
			fmt.Fprintf(&sb, "  • %s: %s\n", q.ID, v)
		}
	}

	if missing := prof.Data.Missing(); len(missing) > 0 {
		fmt.Fprintf(&sb, "\nSin responder: %d\n", len(missing))
	}

	fmt.Fprintf(&sb, "\nHooks guardados: %d\n", len(prof.SavedHooks))
	count := min(len(prof.SavedHooks), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, "  • %s\n", prof.SavedHooks[i].Text)
	}
	if len(prof.SavedHooks) > maxItemsToShow {
		fmt.Fprintf(&sb, "  ... y %d más\n", len(prof.SavedHooks)-maxItemsToShow)
	}
	fmt.Fprintf(&sb, "Guiones guardados: %d", len(prof.SavedScripts))

	p.printBox("PERFIL · "+prof.Name, sb.String())
}

// PrintSavedHooks lists saved hooks with their ids.
func (p *Printer) PrintSavedHooks(hooks []types.SavedHook) {
	if len(hooks) == 0 {
		p.printBox("HOOKS GUARDADOS", "Aún no has guardado hooks.")
		return
	}
	var sb strings.Builder
	for _, h := range hooks {
		fmt.Fprintf(&sb, "%s  %s\n", h.ID, h.Text)
	}
	p.printBox("HOOKS GUARDADOS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSavedScripts lists saved scripts with their format.
func (p *Printer) PrintSavedScripts(scripts []types.SavedScript) {
	if len(scripts) == 0 {
		p.printBox("GUIONES GUARDADOS", "Aún no has guardado guiones.")
		return
	}
	var sb strings.Builder
	for i, s := range scripts {
		fmt.Fprintf(&sb, "%s  %s · %ds\n", s.ID, s.Platform, s.Duration)
		fmt.Fprintf(&sb, "  %s\n", s.Hook)
		if i < len(scripts)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("GUIONES GUARDADOS", strings.TrimSuffix(sb.String(), "\n"))
}
