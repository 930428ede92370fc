package cmd

import (
	"bytes"
	"testing"

	"github.com/sidetalk/sidetalk/testutil"
)

func TestHealthcheckCommand(t *testing.T) {
	history := testutil.CreateTempDir(t)
	srv := testutil.NewChatServer(t, "ok")

	rootCmd.SetArgs([]string{"healthcheck", "--history", history, "--host", srv.URL})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Errorf("healthcheck with reachable service error = %v", err)
	}
}

func TestHealthcheckCommand_UnreachableService(t *testing.T) {
	history := testutil.CreateTempDir(t)

	// Nothing listens on this port.
	rootCmd.SetArgs([]string{"healthcheck", "--history", history, "--host", "http://127.0.0.1:1"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err == nil {
		t.Error("healthcheck should fail when the model service is unreachable")
	}
}
