package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/finance-api/internal/core/ports"
)

func TestRenderer_CSV_Quoting(t *testing.T) {
	var buf bytes.Buffer
	err := New().CSV(&buf, ports.Report{
		Columns: []string{"date", "notes"},
		Rows: [][]string{
			{"2024-01-01", "plain"},
			{"2024-01-02", "with, comma"},
			{"2024-01-03", `say "hi"`},
		},
	})
	require.NoError(t, err)

	want := "date,notes\n" +
		"2024-01-01,plain\n" +
		"2024-01-02,\"with, comma\"\n" +
		"2024-01-03,\"say \"\"hi\"\"\"\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderer_CSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().CSV(&buf, ports.Report{Columns: []string{"a", "b"}}))
	assert.Equal(t, "a,b\n", buf.String())
}

func TestRenderer_PDF(t *testing.T) {
	rows := make([][]string, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, []string{"2024-01-01", "expense", "food", fmt.Sprintf("%d.00", i), strings.Repeat("long note ", 10)})
	}

	var buf bytes.Buffer
	err := New().PDF(&buf, ports.Report{
		Title:   "Finance Export",
		Summary: []string{"Type: Transactions", "Total Items: 120"},
		Columns: []string{"date", "type", "category_id", "amount", "notes"},
		Rows:    rows,
	})
	require.NoError(t, err)

	body := buf.Bytes()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")), "missing pdf signature")
	// one /Type /Pages node plus one /Type /Page per page
	assert.Greater(t, bytes.Count(body, []byte("/Type /Page")), 2, "rows should span several pages")
}

func TestRenderer_PDF_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().PDF(&buf, ports.Report{Title: "Empty"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
