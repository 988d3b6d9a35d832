package format

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/trustcare/cli/internal/config"
)

// Formatter writes data in one output format
type Formatter interface {
	Format(w io.Writer, data any) error
}

// Tabular is implemented by results that know their own columns
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// GetFormatter returns a formatter for the named format
func GetFormatter(format string, useColors bool) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(useColors), nil
	case "json":
		return NewJSONFormatter(true), nil
	case "json-compact":
		return NewJSONFormatter(false), nil
	case "yaml":
		return NewYAMLFormatter(), nil
	case "text":
		return NewTextFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Printer writes results to Out and status lines to Err
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format string
	Colors bool
}

// NewPrinter returns a printer using the configured format and colors
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{
		Out:    out,
		Err:    errOut,
		Format: config.GetOutputFormat(),
		Colors: config.Get().Format.Colors,
	}
}

// Print formats data using the printer's output format
func (p *Printer) Print(data any) error {
	formatter, err := GetFormatter(p.Format, p.Colors)
	if err != nil {
		return err
	}
	return formatter.Format(p.Out, data)
}

// Success prints a success message
func (p *Printer) Success(message string, args ...any) {
	p.line(p.Out, color.FgGreen, "", message, args...)
}

// Error prints an error message
func (p *Printer) Error(message string, args ...any) {
	p.line(p.Err, color.FgRed, "Error: ", message, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(message string, args ...any) {
	p.line(p.Err, color.FgYellow, "Warning: ", message, args...)
}

// Info prints an info message
func (p *Printer) Info(message string, args ...any) {
	p.line(p.Out, color.FgBlue, "", message, args...)
}

func (p *Printer) line(w io.Writer, attr color.Attribute, prefix, message string, args ...any) {
	text := fmt.Sprintf(message, args...)
	if p.Colors {
		c := color.New(attr)
		c.EnableColor()
		_, _ = c.Fprintln(w, text)
		return
	}
	_, _ = fmt.Fprintln(w, prefix+text)
}

// Print formats and prints data to stdout using the configured output format
func Print(data any) error {
	return NewPrinter(os.Stdout, os.Stderr).Print(data)
}

// PrintSuccess prints a success message to stdout
func PrintSuccess(message string, args ...any) {
	NewPrinter(os.Stdout, os.Stderr).Success(message, args...)
}

// PrintError prints an error message to stderr
func PrintError(message string, args ...any) {
	NewPrinter(os.Stdout, os.Stderr).Error(message, args...)
}

// PrintWarning prints a warning message to stderr
func PrintWarning(message string, args ...any) {
	NewPrinter(os.Stdout, os.Stderr).Warning(message, args...)
}

// PrintInfo prints an info message to stdout
func PrintInfo(message string, args ...any) {
	NewPrinter(os.Stdout, os.Stderr).Info(message, args...)
}
