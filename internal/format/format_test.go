package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rows struct {
	Items [][]string `json:"items"`
}

func (r rows) Headers() []string { return []string{"ID", "Status"} }
func (r rows) Rows() [][]string  { return r.Items }

type profile struct {
	UserName string
	Email    *string
}

func TestGetFormatter(t *testing.T) {
	for _, name := range []string{"table", "json", "json-compact", "yaml", "text"} {
		f, err := GetFormatter(name, false)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	_, err := GetFormatter("xml", false)
	assert.EqualError(t, err, "unsupported format: xml")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(false).Format(&buf, rows{Items: [][]string{{"1", "ACTIVE"}, {"2", "PENDING"}}}))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "ACTIVE")
	assert.Contains(t, out, "PENDING")

	buf.Reset()
	require.NoError(t, NewTableFormatter(false).Format(&buf, rows{}))
	assert.Equal(t, noData+"\n", buf.String())
}

func TestTableFormatter_Struct(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(false).Format(&buf, &profile{UserName: "drwho"}))
	assert.Contains(t, buf.String(), "User Name")
	assert.Contains(t, buf.String(), "drwho")
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter().Format(&buf, profile{UserName: "drwho"}))
	assert.Equal(t, "User Name: drwho\nEmail: N/A\n", buf.String())

	buf.Reset()
	require.NoError(t, NewTextFormatter().Format(&buf, rows{Items: [][]string{{"7", ""}}}))
	assert.Equal(t, "Item 1:\n  ID: 7\n  Status: N/A\n", buf.String())
}

func TestTableAndText_ScalarsPrintAsValues(t *testing.T) {
	var table, text bytes.Buffer
	require.NoError(t, NewTableFormatter(false).Format(&table, 42))
	require.NoError(t, NewTextFormatter().Format(&text, 42))
	assert.Equal(t, "42\n", table.String())
	assert.Equal(t, "42\n", text.String())
}

func TestJSONAndYAML(t *testing.T) {
	data := rows{Items: [][]string{{"1", "ACTIVE"}}}

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(false).Format(&buf, data))
	assert.JSONEq(t, `{"items":[["1","ACTIVE"]]}`, buf.String())

	buf.Reset()
	require.NoError(t, NewYAMLFormatter().Format(&buf, map[string]any{"role": "DOCTOR"}))
	assert.Equal(t, "role: DOCTOR\n", buf.String())
}

func TestPrinter_PlainPrefixes(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &Printer{Out: &out, Err: &errOut, Format: "text"}

	p.Success("Logged in as %s", "a@b.com")
	p.Error("bad %d", 1)
	p.Warning("careful")

	assert.Equal(t, "Logged in as a@b.com\n", out.String())
	assert.Equal(t, "Error: bad 1\nWarning: careful\n", errOut.String())
}
