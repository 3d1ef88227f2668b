package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintTableKeepsTitleOnOneLine(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, "All topic values", []string{"#", "Value"}, [][]string{{"0", "GPUs"}}, alignRight, alignLeft)

	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "All topic values" {
		t.Fatalf("expected title line first, got %q", lines[0])
	}
	requireContains(t, buf.String(), "GPUs")
}

func TestPrintTableSkipsEmptyHeaders(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, "Nothing", nil, nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
