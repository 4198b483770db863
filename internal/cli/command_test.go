package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`topic add 0 idea`, []string{"topic", "add", "0", "idea"}},
		{`topic add 0 "two words"`, []string{"topic", "add", "0", "two words"}},
		{`  spaced   out	tabs `, []string{"spaced", "out", "tabs"}},
		{`note "line\none" "say \"hi\""`, []string{"note", "line\none", `say "hi"`}},
		{`empty ""`, []string{"empty", ""}},
		{`glued"quoted part"`, []string{"gluedquoted part"}},
		{``, nil},
	}
	for _, tt := range tests {
		got, err := ParseArgs(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseArgs(`topic add 0 "open`)
	assert.ErrorIs(t, err, errUnterminatedQuote)
}

func TestParseCommand(t *testing.T) {
	cmd, err := parseCommand(`Find ALL "a b" --regex --in=text,note -- --literal`)
	require.NoError(t, err)
	assert.Equal(t, "find", cmd.Scope)
	assert.Equal(t, "all", cmd.Operation)
	assert.Equal(t, []string{"a b", "--literal"}, cmd.Args)
	assert.True(t, cmd.Flag("regex"))
	assert.Equal(t, "text,note", cmd.Flags["in"])
	assert.False(t, cmd.Flag("case"))
	assert.Equal(t, "find all", cmd.String())

	cmd, err = parseCommand("help")
	require.NoError(t, err)
	assert.Equal(t, "help", cmd.Scope)
	assert.Empty(t, cmd.Operation)

	cmd, err = parseCommand("map --all")
	require.NoError(t, err)
	assert.Empty(t, cmd.Operation)
	assert.True(t, cmd.Flag("all"))

	_, err = parseCommand("   ")
	assert.Error(t, err)
}

func TestParseIndex(t *testing.T) {
	path, err := parseIndex("0")
	require.NoError(t, err)
	assert.Equal(t, []int{}, path)

	path, err = parseIndex("2.1.3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, path)

	for _, bad := range []string{"", "0.1", "1..2", "a", "-1", "1.x"} {
		_, err := parseIndex(bad)
		assert.Error(t, err, bad)
	}
}

func TestHelpCoversEveryHandler(t *testing.T) {
	for key := range handlers {
		found := false
		for _, h := range commandHelps {
			if h.Scope+" "+h.Operation == key {
				found = true
				break
			}
		}
		assert.True(t, found, "no help for %s", key)
	}
	assert.Len(t, commandHelps, len(handlers))
}
