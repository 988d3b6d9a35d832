package format

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const noData = "No data to display"

// TableFormatter handles table output formatting
type TableFormatter struct {
	useColors bool
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(useColors bool) *TableFormatter {
	return &TableFormatter{useColors: useColors}
}

// Format writes data as a table
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		_, err := fmt.Fprintln(w, noData)
		return err
	}

	switch v := data.(type) {
	case Tabular:
		return f.formatTabular(w, v)
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	default:
		return f.formatReflection(w, data)
	}
}

func (f *TableFormatter) formatTabular(w io.Writer, data Tabular) error {
	rows := data.Rows()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, noData)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(data.Headers())
	f.configureTable(table)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = f.colorize(cell)
		}
		table.Append(cells)
	}
	table.Render()
	return nil
}

// formatReflection formats structs as a vertical table
func (f *TableFormatter) formatReflection(w io.Writer, data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			_, err := fmt.Fprintln(w, noData)
			return err
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	f.configureTable(table)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		table.Append([]string{formatHeader(field.Name), f.formatValue(v.Field(i).Interface())})
	}
	table.Render()
	return nil
}

// configureTable sets up table appearance
func (f *TableFormatter) configureTable(table *tablewriter.Table) {
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	if f.useColors {
		table.SetHeaderColor(
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiBlueColor},
		)
	}
}

// colorize highlights prescription statuses
func (f *TableFormatter) colorize(cell string) string {
	if !f.useColors {
		return cell
	}
	switch cell {
	case "ACTIVE":
		return color.GreenString(cell)
	case "PENDING":
		return color.YellowString(cell)
	case "COMPLETED":
		return color.BlueString(cell)
	case "CANCELLED":
		return color.RedString(cell)
	default:
		return cell
	}
}

// formatValue formats a value for display
func (f *TableFormatter) formatValue(value any) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return f.colorize(v)
	case *string:
		if v == nil {
			return ""
		}
		return f.colorize(*v)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		if f.useColors {
			if v {
				return color.GreenString("true")
			}
			return color.RedString("false")
		}
		return strconv.FormatBool(v)
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return ""
		}
		return fmt.Sprintf("%v", value)
	}
}

// formatHeader turns snake_case or CamelCase keys into Title Case
func formatHeader(header string) string {
	var words []string
	for _, part := range strings.Split(header, "_") {
		words = append(words, splitCamel(part)...)
	}
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' && s[i-1] >= 'a' && s[i-1] <= 'z' {
			words = append(words, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}
