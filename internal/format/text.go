package format

import (
	"fmt"
	"io"
	"reflect"
)

// TextFormatter handles simple text output formatting
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format writes data as simple text
func (f *TextFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		_, err := fmt.Fprintln(w, "No data")
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

// formatTabular prints one block per row
func (f *TextFormatter) formatTabular(w io.Writer, data Tabular) error {
	rows := data.Rows()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No data")
		return err
	}
	headers := data.Headers()
	for i, row := range rows {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Item %d:\n", i+1)
		for j, cell := range row {
			if j < len(headers) {
				fmt.Fprintf(w, "  %s: %s\n", headers[j], f.formatValue(cell))
			}
		}
	}
	return nil
}

func (f *TextFormatter) formatReflection(w io.Writer, data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			_, err := fmt.Fprintln(w, "No data")
			return err
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.IsExported() {
			fmt.Fprintf(w, "%s: %v\n", formatHeader(field.Name), f.formatValue(v.Field(i).Interface()))
		}
	}
	return nil
}

// formatValue formats a value for display
func (f *TextFormatter) formatValue(value any) any {
	switch v := value.(type) {
	case nil:
		return "N/A"
	case string:
		if v == "" {
			return "N/A"
		}
		return v
	case *string:
		if v == nil || *v == "" {
			return "N/A"
		}
		return *v
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "N/A"
		}
		return rv.Elem().Interface()
	}
	return value
}
