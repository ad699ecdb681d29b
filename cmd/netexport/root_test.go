package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestResolveConfigPath_Env(t *testing.T) {
	t.Setenv("NETEXPORT_CONFIG", "/etc/netexport/custom.yaml")

	path, err := resolveConfigPath(viper.New())
	if err != nil {
		t.Fatalf("resolveConfigPath() error = %v", err)
	}
	if path != "/etc/netexport/custom.yaml" {
		t.Errorf("path = %q, want the env value", path)
	}
}

func TestResolveConfigPath_Explicit(t *testing.T) {
	t.Setenv("NETEXPORT_CONFIG", "/from/env.yaml")

	v := viper.New()
	v.Set("config", "/from/flag.yaml")

	path, err := resolveConfigPath(v)
	if err != nil {
		t.Fatalf("resolveConfigPath() error = %v", err)
	}
	if path != "/from/flag.yaml" {
		t.Errorf("path = %q, want the flag value", path)
	}
}

func TestResolveConfigPath_SearchWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)

	if err := os.WriteFile(filepath.Join(dir, "netexport.yaml"), []byte("store:\n  backend: sqlite\n"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := resolveConfigPath(viper.New())
	if err != nil {
		t.Fatalf("resolveConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "netexport.yaml" {
		t.Errorf("path = %q, want the netexport.yaml in the working directory", path)
	}
}

func TestResolveConfigPath_NotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	path, err := resolveConfigPath(viper.New())
	if err != nil {
		t.Fatalf("resolveConfigPath() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
}
