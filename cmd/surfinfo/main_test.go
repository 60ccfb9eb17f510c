package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	if err := run(&buf, "", false, -1, "0.1,0.5", "0.9,0.5", []string{"torus"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"torus (flat, genus 1)",
		"0: 4 corners, total angle 2.000000π",
		"distance: 0.200000",
		"shortest through side b",
		"crosses an edge at t=0.100000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}

func TestRunList(t *testing.T) {
	var buf bytes.Buffer
	if err := run(&buf, "", true, -1, "", "", nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.Fields(buf.String()); len(got) != 6 || got[0] != "torus" {
		t.Errorf("unexpected listing %q", got)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		names    []string
	}{
		{"unknown surface", "", "", []string{"sphere"}},
		{"malformed position", "0.5", "0.5,0.5", []string{"torus"}},
		{"off the surface", "3,3", "0.5,0.5", []string{"torus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(&bytes.Buffer{}, "", false, -1, tt.from, tt.to, tt.names); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParsePosition(t *testing.T) {
	v, err := parsePosition(" 0.25, -1.5")
	if err != nil {
		t.Fatal(err)
	}
	if v.X != 0.25 || v.Y != -1.5 || v.Z != 0 {
		t.Errorf("got %v", v)
	}
}
