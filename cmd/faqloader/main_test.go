package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/JDeepLearn/faq-data-loader/core"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"faqloader"}, args...))
	return out.String(), err
}

// useLocalServices points the loader at a temporary badger store and the
// mock embedder.
func useLocalServices(t *testing.T) {
	t.Helper()
	t.Setenv("FAQ_PIPELINE_STORE", "badger")
	t.Setenv("FAQ_PIPELINE_BADGER_DIR", filepath.Join(t.TempDir(), "faq"))
	t.Setenv("FAQ_PIPELINE_DURABILITY", "none")
	t.Setenv("FAQ_EMBEDDING_BACKEND", "mock")
	t.Setenv("FAQ_SEARCH_ENSURE_INDEX", "false")
}

func TestLoadCommandFlags(t *testing.T) {
	app := newApp()
	var load *cli.Command
	for _, cmd := range app.Commands {
		if cmd.Name == "load" {
			load = cmd
		}
	}
	require.NotNil(t, load)

	t.Run("file is required", func(t *testing.T) {
		_, err := runApp(t, "load")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})

	t.Run("ensure-index defaults to true", func(t *testing.T) {
		var ensure *cli.BoolFlag
		for _, flag := range load.Flags {
			if f, ok := flag.(*cli.BoolFlag); ok && f.Name == "ensure-index" {
				ensure = f
			}
		}
		require.NotNil(t, ensure)
		assert.True(t, ensure.Value)
	})
}

func TestIDCommand(t *testing.T) {
	out, err := runApp(t, "id", "How do I reset my password?")
	require.NoError(t, err)
	assert.Equal(t, core.ContentID("How do I reset my password?"), strings.TrimSpace(out))

	_, err = runApp(t, "id")
	assert.Error(t, err)
}

func TestLoadAndGet(t *testing.T) {
	useLocalServices(t)

	path := filepath.Join(t.TempDir(), "faqs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"question": "How do I reset my password?", "answer": "Go to settings."},
		{"question": "How do I update my email?", "answer": "Edit your profile."}
	]`), 0o644))

	out, err := runApp(t, "load", "--file", path, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "upserted=2")

	id := core.ContentID("How do I update my email?")
	out, err = runApp(t, "get", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "`+id+`"`)
	assert.Contains(t, out, `"answer": "Edit your profile."`)
	assert.Contains(t, out, `"question_vector"`)
}

func TestLoadCommand_InvalidInput(t *testing.T) {
	useLocalServices(t)

	path := filepath.Join(t.TempDir(), "faqs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"question": "q?", "answer": ""}]`), 0o644))

	_, err := runApp(t, "load", "--file", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestEnsureIndexCommand_Disabled(t *testing.T) {
	useLocalServices(t)
	t.Setenv("FAQ_SEARCH_URL", "")

	_, err := runApp(t, "ensure-index")
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"defaults", nil, false},
		{"json debug", []string{"--log-level", "debug", "--log-format", "json"}, false},
		{"invalid level", []string{"--log-level", "verbose"}, true},
		{"invalid format", []string{"--log-format", "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "id", "q")
			_, err := runApp(t, args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
