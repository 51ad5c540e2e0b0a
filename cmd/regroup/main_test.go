package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stemsi/coeval-backend/internal/engine"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Sí\n", true},
		{"yes", true},
		{"\n", false},
		{"n\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, confirm(strings.NewReader(tt.input), &out, "Apply?"), "input %q", tt.input)
		assert.Equal(t, "Apply? [y/N]: ", out.String())
	}
}

func TestPrintStep(t *testing.T) {
	var buf bytes.Buffer
	printStep(&buf, engine.TaskResult{Step: 1, Op: "delete_group", EntityID: "g1", Done: true}, 3)
	printStep(&buf, engine.TaskResult{Step: 2, Op: "create_group", EntityID: "g2", Error: "boom"}, 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[1/3]")
	assert.Contains(t, lines[0], "ok")
	assert.Contains(t, lines[1], "FAILED: boom")
}
