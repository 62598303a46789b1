package platform

import (
	"encoding/json"
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

func TestParseError_JSON(t *testing.T) {
	data := []byte("{\n  \"mcpServers\": {,}\n}")
	var v any
	err := json.Unmarshal(data, &v)
	if err == nil {
		t.Fatal("expected JSON error")
	}

	got := ParseError(err, "/home/me/.cursor/mcp.json", data)
	if !errors.Is(got, errors.ErrParse) {
		t.Errorf("ParseError() should match ErrParse, got %v", got)
	}
	if !strings.Contains(got.Error(), "/home/me/.cursor/mcp.json at line 2, column") {
		t.Errorf("ParseError() = %q, expected path and position", got)
	}
}

func TestParseError_TOML(t *testing.T) {
	data := []byte("model = \"o3\"\n[mcp_servers.github\n")
	var v any
	err := toml.Unmarshal(data, &v)
	if err == nil {
		t.Fatal("expected TOML error")
	}

	got := ParseError(err, "config.toml", data)
	if !errors.Is(got, errors.ErrParse) {
		t.Errorf("ParseError() should match ErrParse, got %v", got)
	}
	if !strings.Contains(got.Error(), "line 2") {
		t.Errorf("ParseError() = %q, expected line 2", got)
	}
}

func TestParseError_NoPosition(t *testing.T) {
	got := ParseError(errors.New("unexpected shape"), "config.json", nil)
	if !errors.Is(got, errors.ErrParse) {
		t.Error("ParseError() should match ErrParse")
	}
	if strings.Contains(got.Error(), "line") {
		t.Errorf("ParseError() = %q, expected no position", got)
	}
}

func TestLineCol(t *testing.T) {
	data := []byte("{\n  \"a\": 1,\n\n}")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},  // on the first newline
		{2, 2, 1},  // start of line 2
		{5, 2, 4},  // inside "a"
		{12, 3, 1}, // empty line
		{13, 4, 1},
		{14, 4, 2}, // end of data
		{-3, 1, 1},
		{999, 4, 2},
	}
	for _, tt := range tests {
		line, col := lineCol(data, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("lineCol(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}
