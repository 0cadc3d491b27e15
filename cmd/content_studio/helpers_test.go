package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/content-studio/internal/config"
	"github.com/jonathan/content-studio/internal/kv"
	"github.com/jonathan/content-studio/internal/llm"
	"github.com/jonathan/content-studio/internal/llm/llmtest"
	"github.com/stretchr/testify/require"
)

// testApp is an app backed by one in-memory store and a mock model client.
type testApp struct {
	*app
	mock    *llmtest.MockClient
	backend *kv.MemoryStore
	dir     string
}

func newTestApp(t *testing.T, configJSON string) *testApp {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(configJSON), 0644))

	ta := &testApp{
		mock:    &llmtest.MockClient{},
		backend: kv.NewMemoryStore(),
		dir:     dir,
	}
	ta.app = &app{
		configPath: path,
		newLLM: func(context.Context, *config.Config) (llm.Client, error) {
			return ta.mock, nil
		},
		openStore: func(context.Context, kv.Config) (kv.Store, error) {
			return ta.backend, nil
		},
	}
	return ta
}

func newDefaultTestApp(t *testing.T) *testApp {
	return newTestApp(t, `{"api_key": "test-key", "store_backend": "memory", "log_level": "error"}`)
}

// run executes one command line and returns its stdout.
func (ta *testApp) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return ta.runWithInput(t, "", args...)
}

func (ta *testApp) runWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(ta.app)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--config", ta.configPath))
	err := root.Execute()
	return out.String(), err
}

// writeFile writes content under the app's temp dir and returns the path.
func (ta *testApp) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(ta.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
