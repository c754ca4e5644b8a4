package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlsentry/sqlsentry/internal/cli/output"
)

func TestRenderer_EffectiveMode(t *testing.T) {
	var buf bytes.Buffer

	// A plain buffer is not a terminal, so auto resolves to markdown
	r := output.NewRenderer(&buf, &buf, output.ModeAuto)
	assert.Equal(t, output.ModeMarkdown, r.EffectiveMode())

	r = output.NewRenderer(&buf, &buf, output.ModeJSON)
	assert.Equal(t, output.ModeJSON, r.EffectiveMode())

	r = output.NewRenderer(&buf, &buf, output.ModeText)
	assert.Equal(t, output.ModeText, r.EffectiveMode())
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, &buf, output.ModeJSON)

	require.NoError(t, r.JSON(output.LintSummary{FilesAnalyzed: 3, TotalIssues: 1}))

	var got output.LintSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got.FilesAnalyzed)
	assert.Equal(t, 1, got.TotalIssues)
}

func TestRenderer_NonTextModesUnstyled(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, &buf, output.ModeMarkdown)

	r.Println(r.Styles().Error.Render("plain"))
	assert.Equal(t, "plain\n", buf.String())
}

func TestRenderer_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRenderer(&out, &errOut, output.ModeMarkdown)

	r.Printf("to stdout %d\n", 1)
	r.Errorf("to stderr %d\n", 2)

	assert.Equal(t, "to stdout 1\n", out.String())
	assert.Equal(t, "to stderr 2\n", errOut.String())
}
