package server

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func parse(t *testing.T, args ...string) Config {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	return c
}

func TestConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	c := parse(t)
	if c.Addr != ":3000" || c.MapPath != "" || c.EdgesBlock {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if wc := c.WorldConfig(); wc.Speed != 5 || wc.EdgesBlock {
		t.Fatalf("unexpected world config %+v", wc)
	}
}

func TestConfigPortFromEnv(t *testing.T) {
	t.Setenv("PORT", "4100")
	if c := parse(t); c.Addr != ":4100" {
		t.Fatalf("addr = %q", c.Addr)
	}
	if c := parse(t, "-addr", "127.0.0.1:9000"); c.Addr != "127.0.0.1:4100" {
		t.Fatalf("addr = %q", c.Addr)
	}
}

func TestConfigLoadMap(t *testing.T) {
	t.Setenv("PORT", "")
	tm, err := parse(t).LoadMap()
	if err != nil || tm.Cols() != 50 || tm.Rows() != 50 {
		t.Fatalf("default map: %v", err)
	}

	path := filepath.Join(t.TempDir(), "m.json")
	if err := os.WriteFile(path, []byte(`{"ground":[[1,1]],"decal":[[0,1]]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c := parse(t, "-map", path, "-edges-block")
	tm, err = c.LoadMap()
	if err != nil || !tm.IsBlocking(0, 1) {
		t.Fatalf("file map: %v", err)
	}
	if !c.WorldConfig().EdgesBlock {
		t.Fatal("edges-block flag ignored")
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewLogger(path, "debug", false)
	if err != nil {
		t.Fatal(err)
	}
	l.Infow("hello", "k", 1)
	_ = l.Sync()
	raw, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(raw), "hello") {
		t.Fatalf("log file missing entry: %v", err)
	}
	if _, err := NewLogger(path, "loud", false); err == nil {
		t.Fatal("bad level should fail")
	}
}
