package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMatch(t *testing.T) *testEnv {
	return setupTestServices(t,
		rec("Summarize", "/summarize", "Summarize: {input}"),
		rec("Spanish", "/spanish", "Translate to Spanish: {input}"),
		rec("Sql", "/sql", "Write SQL"),
	)
}

func TestMatch_ListsCandidates(t *testing.T) {
	seedMatch(t)

	out, _, err := execute(t, "", "match", "/s")

	require.NoError(t, err)
	assert.Contains(t, out, "Query:  /s")
	assert.Contains(t, out, "Token:  [0, 2)")
	assert.Contains(t, out, "  > /summarize - Summarize")
	assert.Contains(t, out, "    /spanish - Spanish")
}

func TestMatch_DownAndCommit(t *testing.T) {
	seedMatch(t)

	out, _, err := execute(t, "", "match", "/s hola", "--cursor", "2", "--down", "1", "--commit")

	require.NoError(t, err)
	assert.Contains(t, out, "  > /spanish - Spanish")
	assert.Contains(t, out, "Translate to Spanish: hola\n")
}

func TestMatch_UpWraps(t *testing.T) {
	seedMatch(t)

	out, _, err := execute(t, "", "match", "/s", "--up", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "  > /sql - Sql")
}

func TestMatch_NoToken(t *testing.T) {
	seedMatch(t)

	out, _, err := execute(t, "", "match", "hello")

	require.NoError(t, err)
	assert.Equal(t, "No command at cursor.\n", out)
}

func TestMatch_CommitWithoutCandidates(t *testing.T) {
	seedMatch(t)

	out, _, err := execute(t, "", "match", "/zzz", "--commit")

	require.NoError(t, err)
	assert.Contains(t, out, "No matching prompts.")
	assert.Contains(t, out, "Nothing highlighted; buffer unchanged.")
}

func TestMatch_MissingEngine(t *testing.T) {
	SetServices(&Services{})

	_, _, err := execute(t, "", "match", "/s")

	assert.ErrorIs(t, err, errEngineMissing)
}

func TestExpand(t *testing.T) {
	seedMatch(t)

	out, errOut, err := execute(t, "", "expand", "/summarize", "the", "report")

	require.NoError(t, err)
	assert.Equal(t, "Summarize: the report\n", out)
	assert.Empty(t, errOut)
}

func TestExpand_Unknown(t *testing.T) {
	seedMatch(t)

	out, errOut, err := execute(t, "", "expand", "/nope", "x")

	require.NoError(t, err)
	assert.Equal(t, "/nope x\n", out)
	assert.Contains(t, errOut, "no matching command")
}

func TestExpand_Submit(t *testing.T) {
	env := seedMatch(t)

	out, _, err := execute(t, "", "expand", "--submit", "/spanish", "hola")

	require.NoError(t, err)
	assert.Equal(t, "Sent to stdout\n", out)
	assert.Equal(t, "Translate to Spanish: hola\n", env.sinkOut.String())
}
