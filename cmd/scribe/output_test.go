package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/segments"
)

func TestClip(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"line one\nline two", 40, "line one line two"},
		{"こんにちは世界", 4, "こんに…"},
	}

	for _, tt := range tests {
		if got := clip(tt.in, tt.n); got != tt.want {
			t.Errorf("clip(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeTable(&buf, []string{"ID", "NAME"}, [][]string{
		{"1", "alpha"},
		{"22", "b"},
	})
	if err != nil {
		t.Fatalf("writeTable: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "ID  NAME" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "22  b" {
		t.Errorf("row = %q", lines[2])
	}
}

func TestWriteYAMLSegment(t *testing.T) {
	seg := segments.Segment{
		ID:       uuid.MustParse("8d3b8c3e-8b7a-4a53-9d59-1f4f3f7b2c10"),
		Position: 2,
		Source:   "Hello",
		Target:   "Hallo",
		Locator:  formats.XliffLocator{UnitID: "u1", State: "translated"},
	}

	var buf bytes.Buffer
	if err := writeYAML(&buf, seg); err != nil {
		t.Fatalf("writeYAML: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"id: 8d3b8c3e-8b7a-4a53-9d59-1f4f3f7b2c10",
		"position: 2",
		"target: Hallo",
		"unit_id: u1",
		"state: translated",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckOutput(t *testing.T) {
	for _, ok := range []string{outputTable, outputYAML} {
		if err := checkOutput(ok); err != nil {
			t.Errorf("checkOutput(%q) = %v", ok, err)
		}
	}
	if err := checkOutput("json"); !errors.Is(err, errUsage) {
		t.Errorf("checkOutput(json) = %v, want errUsage", err)
	}
}

func TestPageOptionsRequest(t *testing.T) {
	var o pageOptions
	cmd := &cobra.Command{Use: "list"}
	addPageFlags(cmd, &o, true)

	args := []string{"--page", "2", "--page-size", "50", "--sort", "Name", "--sort", "-CreatedAt", "--search", "guide"}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	req := o.request()

	if req.Page != 2 || req.PageSize != 50 {
		t.Errorf("page = %d/%d, want 2/50", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "guide" {
		t.Errorf("search = %v, want guide", req.Search)
	}
	if len(req.Sort) != 2 || req.Sort[0].Field != "Name" || !req.Sort[1].Descending {
		t.Errorf("sort = %+v", req.Sort)
	}

	if req := (pageOptions{page: 1}).request(); req.Search != nil || req.Sort != nil {
		t.Errorf("empty options produced search %v sort %v", req.Search, req.Sort)
	}

	if err := cmd.ParseFlags([]string{"--sort", ","}); err == nil {
		t.Error("ParseFlags accepted an empty sort")
	}
}
