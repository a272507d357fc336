package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceCmd_Flags(t *testing.T) {
	var cmd VoiceCmd
	parser := flags.NewParser(&cmd, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs([]string{"--in", "call.wav", "-o", "reply.wav", "--script", "lines.txt"})
	require.NoError(t, err)
	assert.Equal(t, "call.wav", cmd.In)
	assert.Equal(t, "reply.wav", cmd.Out)
	assert.Equal(t, "lines.txt", cmd.Script)
}

func TestVoiceCmd_RequiresInput(t *testing.T) {
	var cmd VoiceCmd
	parser := flags.NewParser(&cmd, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(nil)
	assert.Error(t, err)
}

func TestReadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.txt")
	require.NoError(t, os.WriteFile(path, []byte("book\n\ncardiology\n"), 0o600))

	lines, err := readScript(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"book", "", "cardiology"}, lines)

	lines, err = readScript("")
	require.NoError(t, err)
	assert.Nil(t, lines)
}
