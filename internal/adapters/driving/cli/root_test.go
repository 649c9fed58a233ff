package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "insightly", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"upload", "ask", "suggestions", "document", "settings", "chat", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "data-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestSetServices_NilResets(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	SetServices(nil)

	assert.Nil(t, documentStore)
	assert.Nil(t, uploadSession)
	assert.Nil(t, conversationSession)
	assert.Nil(t, settingsService)
	assert.Nil(t, closeServices)
}

func TestSetup_RunsBootstrap(t *testing.T) {
	defer SetServices(nil)
	defer SetBootstrap(nil)
	defer func() { options = Options{} }()

	var got Options
	SetBootstrap(func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{Settings: &MockSettingsService{}}, nil
	})

	_, err := execute("settings", "keys", "--config-dir", "/tmp/cfg", "--data-dir", "/tmp/data")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/cfg", got.ConfigDir)
	assert.Equal(t, "/tmp/data", got.DataDir)
	assert.NotNil(t, settingsService)
}

func TestSetup_BootstrapError(t *testing.T) {
	defer SetBootstrap(nil)

	SetBootstrap(func(context.Context, Options) (*Services, error) {
		return nil, errors.New("database locked")
	})

	_, err := execute("document", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start: database locked")
}

func TestSetup_VersionSkipsBootstrap(t *testing.T) {
	defer SetBootstrap(nil)

	called := false
	SetBootstrap(func(context.Context, Options) (*Services, error) {
		called = true
		return &Services{}, nil
	})

	_, err := execute("version")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestExecute_ClosesServices(t *testing.T) {
	defer SetServices(nil)

	closed := 0
	SetServices(&Services{Close: func() error {
		closed++
		return nil
	}})
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	err := Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Nil(t, closeServices)
}

func TestExecute_JoinsCloseError(t *testing.T) {
	defer SetServices(nil)

	SetServices(&Services{Close: func() error {
		return errors.New("flush failed")
	}})
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	err := Execute(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing: flush failed")
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("1.2.3")

	out, err := execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, "insightly version 1.2.3")
}
