package ux

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/archway-warp/warp-cli/internal/chain"
)

var (
	stepPrefix = color.New(color.FgYellow, color.Bold).SprintFunc()
	doneText   = color.New(color.FgGreen).SprintFunc()
	errorText  = color.New(color.FgRed, color.Bold).SprintFunc()
	headerText = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Printer writes user-facing progress. Structured logs go through slog instead.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Stdout returns a printer bound to the process' stdout.
func Stdout() *Printer {
	return NewPrinter(os.Stdout)
}

func (p *Printer) Writer() io.Writer {
	return p.out
}

// Header prints a section title such as "Uploading contracts to the chain...".
func (p *Printer) Header(msg string, args ...any) {
	_, _ = fmt.Fprintln(p.out, headerText(fmt.Sprintf(msg, args...)))
}

// Step announces the start of a unit of work.
func (p *Printer) Step(msg string, args ...any) {
	_, _ = fmt.Fprintf(p.out, " %s %s\n", stepPrefix("=>"), fmt.Sprintf(msg, args...))
}

// Done reports the successful end of the last step.
func (p *Printer) Done(msg string, args ...any) {
	_, _ = fmt.Fprintf(p.out, "    %s %s\n", doneText("Done"), fmt.Sprintf(msg, args...))
}

func (p *Printer) Println(msg string, args ...any) {
	_, _ = fmt.Fprintln(p.out, fmt.Sprintf(msg, args...))
}

// Error prints err in red. Failed transactions also get their raw chain log.
func (p *Printer) Error(err error) {
	_, _ = fmt.Fprintf(p.out, "%s %s\n", errorText("Error:"), err)

	var failed *chain.TxFailedError
	if errors.As(err, &failed) && failed.RawLog != "" {
		_, _ = fmt.Fprintf(p.out, "%s\n%s\n", errorText("Raw log:"), failed.RawLog)
	}
}

// Table renders rows under header.
func (p *Printer) Table(header []string, rows [][]string) error {
	table := tablewriter.NewWriter(p.out)
	headers := make([]any, len(header))
	for i, h := range header {
		headers[i] = h
	}
	table.Header(headers...)

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
