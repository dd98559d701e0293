package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testManifest = `
[graph]
name = "services"

[[node]]
id = "api"

[[node]]
id = "db"

[[edge]]
from = "api"
to   = "db"
`

const cyclicManifest = `
[[node]]
id = "a"

[[node]]
id = "b"

[[edge]]
from = "a"
to   = "b"

[[edge]]
from = "b"
to   = "a"
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestCheckAcyclic(t *testing.T) {
	path := writeManifest(t, testManifest)
	if err := runCommand(t, "check", path); err != nil {
		t.Errorf("check error = %v", err)
	}
}

func TestCheckCycle(t *testing.T) {
	path := writeManifest(t, cyclicManifest)
	if err := runCommand(t, "check", path); err == nil {
		t.Error("check of cyclic manifest should fail")
	}
}

func TestCheckUnresolved(t *testing.T) {
	path := writeManifest(t, `
[[node]]
id = "a"
[[edge]]
from = "a"
to   = "ghost"
`)
	err := runCommand(t, "check", path)
	if err == nil {
		t.Fatal("check with dangling reference should fail")
	}
	if !strings.Contains(err.Error(), "unresolved") {
		t.Errorf("error %q does not mention unresolved references", err)
	}
}

func TestCheckMissingManifest(t *testing.T) {
	if err := runCommand(t, "check", filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("check of a missing file should fail")
	}
}

func TestOrderJSONExport(t *testing.T) {
	path := writeManifest(t, testManifest)
	out := filepath.Join(t.TempDir(), "analysis.json")
	if err := runCommand(t, "order", path, "--json", "-o", out); err != nil {
		t.Fatalf("order error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	for _, want := range []string{`"acyclic": true`, `"api"`, `"db"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("export missing %q:\n%s", want, data)
		}
	}
}

func TestOrderCycleFails(t *testing.T) {
	path := writeManifest(t, cyclicManifest)
	if err := runCommand(t, "order", path); err == nil {
		t.Error("order of cyclic manifest should fail")
	}
}

func TestRenderDOT(t *testing.T) {
	path := writeManifest(t, testManifest)
	out := filepath.Join(t.TempDir(), "graph.dot")
	if err := runCommand(t, "render", path, "--format", "dot", "-o", out); err != nil {
		t.Fatalf("render error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `"api" -> "db";`) {
		t.Errorf("DOT output missing edge:\n%s", data)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	path := writeManifest(t, testManifest)
	if err := runCommand(t, "render", path, "--format", "bmp"); err == nil {
		t.Error("render with unknown format should fail")
	}
}

func TestServeUnknownBackend(t *testing.T) {
	if err := runCommand(t, "serve", "--store", "etcd"); err == nil {
		t.Error("serve with unknown backend should fail")
	}
}

func TestNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"graph.toml", "graph"},
		{"/tmp/deps/services.toml", "services"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := nameFromPath(tt.path); got != tt.want {
			t.Errorf("nameFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestResolveManifestArgExplicit(t *testing.T) {
	got, err := resolveManifestArg([]string{"explicit.toml"})
	if err != nil {
		t.Fatalf("resolveManifestArg error = %v", err)
	}
	if got != "explicit.toml" {
		t.Errorf("got %q, want explicit.toml", got)
	}
}
