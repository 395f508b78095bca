package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-fit/internal/config"
	"github.com/jonathan/candidate-fit/internal/llm"
	"github.com/jonathan/candidate-fit/internal/llm/llmtest"
)

// testApp returns an app writing to buffers whose model client is client.
// A nil client makes client creation fail.
func testApp(client *llmtest.Fake) (*app, *bytes.Buffer) {
	var out bytes.Buffer
	return &app{
		stdout: &out,
		stderr: &out,
		newClient: func(context.Context, *config.Config) (llm.Client, error) {
			if client == nil {
				return nil, errors.New("no client")
			}
			return client, nil
		},
	}, &out
}

func execute(t *testing.T, a *app, args ...string) error {
	t.Helper()
	root := newRootCmd(a)
	root.SetArgs(args)
	return root.Execute()
}

// clearKeys removes API keys inherited from the environment
func clearKeys(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("FIT_API_KEY", "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRoot_UnknownProvider(t *testing.T) {
	clearKeys(t)
	a, _ := testApp(nil)
	dir := t.TempDir()
	reqs := writeFile(t, dir, "reqs.json", `{}`)
	profile := writeFile(t, dir, "p.json", `{}`)

	err := execute(t, a, "score", "--provider", "openai", "--profile", profile, "--requirements", reqs)
	require.Error(t, err)
	require.Contains(t, err.Error(), "config error")
}

func TestRoot_ConfigFile(t *testing.T) {
	clearKeys(t)
	a, _ := testApp(nil)
	dir := t.TempDir()
	cfg := writeFile(t, dir, "fit.yaml", "retry:\n  max-attempts: 0\n")
	reqs := writeFile(t, dir, "reqs.json", `{}`)
	profile := writeFile(t, dir, "p.json", `{}`)

	err := execute(t, a, "score", "--config", cfg, "--profile", profile, "--requirements", reqs)
	require.Error(t, err)
	require.Contains(t, err.Error(), "MaxAttempts")
}
