package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommandPrintsLibraryVersion(t *testing.T) {
	cmd := newVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatal("expected non-empty version output")
	}
}

func TestVersionCommandSkipsConfigLoad(t *testing.T) {
	cmd := newVersionCommand()
	if cmd.Annotations["skipConfigLoad"] != "true" {
		t.Fatal("expected version command to skip config loading")
	}
}
