package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlsentry/sqlsentry/pkg/lint"
)

func TestRulesCommand_List(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRulesCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	cmd.SetArgs([]string{"--format", "text"})

	require.NoError(t, cmd.Execute())
	for _, id := range []string{"E3", "E4", "E5"} {
		assert.Contains(t, out.String(), id)
	}
}

func TestRulesCommand_ListJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRulesCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	cmd.SetArgs([]string{"--format", "json"})

	require.NoError(t, cmd.Execute())

	var infos []lint.RuleInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
	require.Len(t, infos, 3)
	assert.Equal(t, "E3", infos[0].ID)
}

func TestRulesCommand_Detail(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRulesCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	cmd.SetArgs([]string{"e5", "--format", "text"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "locking.non-concurrent-index")
	assert.Contains(t, out.String(), "CONCURRENTLY")
}

func TestRulesCommand_UnknownRule(t *testing.T) {
	cmd := NewRulesCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())
	cmd.SetArgs([]string{"E99"})

	require.Error(t, cmd.Execute())
}
