package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandStructure(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	if root.Use != "wavedrom" {
		t.Errorf("Use = %q, want wavedrom", root.Use)
	}

	for _, name := range []string{"render", "segment", "check", "cache", "config", "serve", "completion"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("persistent --config flag not registered")
	}
}

func TestRootCommandVersion(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out.String(), "wavedrom version") {
		t.Errorf("version output = %q, want the buildinfo template", out.String())
	}
}

func TestRootCommandUnknownSubcommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"frobnicate"})
	if err := root.Execute(); err == nil {
		t.Error("Execute() accepted an unknown subcommand")
	}
}
