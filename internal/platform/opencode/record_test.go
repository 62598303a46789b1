package opencode

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/thoreinstein/mcptoggle/internal/mcp"
)

func TestToServer(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantEnabled bool
		wantErr     bool
		check       func(t *testing.T, srv *mcp.Server)
	}{
		{
			name:        "local server",
			input:       `{"type": "local", "command": ["npx", "-y", "@modelcontextprotocol/server-github"], "environment": {"GITHUB_TOKEN": "token123"}}`,
			wantEnabled: true,
			check: func(t *testing.T, srv *mcp.Server) {
				t.Helper()
				// Command[0] → Command
				if srv.Command != "npx" {
					t.Errorf("Command = %q, want %q", srv.Command, "npx")
				}
				// Command[1:] → Args
				if !reflect.DeepEqual(srv.Args, []string{"-y", "@modelcontextprotocol/server-github"}) {
					t.Errorf("Args = %v", srv.Args)
				}
				// Environment → Env
				if srv.Env["GITHUB_TOKEN"] != "token123" {
					t.Errorf("Env[GITHUB_TOKEN] = %q, want %q", srv.Env["GITHUB_TOKEN"], "token123")
				}
				if srv.Type != mcp.TransportStdio {
					t.Errorf("Type = %q, want %q", srv.Type, mcp.TransportStdio)
				}
			},
		},
		{
			name:        "remote server disabled",
			input:       `{"type": "remote", "url": "https://mcp.example.com", "headers": {"X-Key": "k"}, "enabled": false}`,
			wantEnabled: false,
			check: func(t *testing.T, srv *mcp.Server) {
				t.Helper()
				if srv.Type != mcp.TransportSSE {
					t.Errorf("Type = %q, want %q", srv.Type, mcp.TransportSSE)
				}
				if srv.URL != "https://mcp.example.com" || srv.Headers["X-Key"] != "k" {
					t.Errorf("remote fields lost: %+v", srv)
				}
				if _, ok := srv.Extra("enabled"); ok {
					t.Error("enabled should be consumed, not kept as an extra field")
				}
			},
		},
		{
			name:        "explicitly enabled",
			input:       `{"command": ["memory-mcp"], "enabled": true}`,
			wantEnabled: true,
			check: func(t *testing.T, srv *mcp.Server) {
				t.Helper()
				if srv.Command != "memory-mcp" || len(srv.Args) != 0 {
					t.Errorf("Command = %q, Args = %v", srv.Command, srv.Args)
				}
			},
		},
		{
			name:        "unknown fields kept",
			input:       `{"command": ["x"], "timeout": 5000}`,
			wantEnabled: true,
			check: func(t *testing.T, srv *mcp.Server) {
				t.Helper()
				v, ok := srv.Extra("timeout")
				if !ok || string(v) != "5000" {
					t.Errorf("Extra(timeout) = %s, %v", v, ok)
				}
			},
		},
		{
			name:    "command is not an array",
			input:   `{"command": "npx"}`,
			wantErr: true,
		},
		{
			name:    "enabled is not a bool",
			input:   `{"command": ["npx"], "enabled": "no"}`,
			wantErr: true,
		},
		{
			name:    "record is not an object",
			input:   `[1]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, enabled, err := toServer("test", json.RawMessage(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("toServer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if enabled != tt.wantEnabled {
				t.Errorf("enabled = %v, want %v", enabled, tt.wantEnabled)
			}
			tt.check(t, srv)
		})
	}
}

func TestFromServer(t *testing.T) {
	tests := []struct {
		name    string
		server  *mcp.Server
		enabled bool
		want    string
	}{
		{
			name:    "local server",
			server:  &mcp.Server{Command: "npx", Args: []string{"-y", "pkg"}, Env: map[string]string{"K": "v"}},
			enabled: true,
			want:    `{"command": ["npx", "-y", "pkg"], "environment": {"K": "v"}, "type": "local"}`,
		},
		{
			name:    "disabled remote server",
			server:  &mcp.Server{Type: mcp.TransportHTTP, URL: "https://mcp.example.com"},
			enabled: false,
			want:    `{"url": "https://mcp.example.com", "type": "remote", "enabled": false}`,
		},
		{
			name:    "stdio type",
			server:  &mcp.Server{Type: mcp.TransportStdio, Command: "x"},
			enabled: true,
			want:    `{"command": ["x"], "type": "local"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fromServer(tt.server, tt.enabled)
			if err != nil {
				t.Fatalf("fromServer() error = %v", err)
			}

			var gotMap, wantMap map[string]any
			if err := json.Unmarshal(got, &gotMap); err != nil {
				t.Fatal(err)
			}
			if err := json.Unmarshal([]byte(tt.want), &wantMap); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(gotMap, wantMap) {
				t.Errorf("fromServer() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	inputs := []string{
		`{"command":["npx","-y","pkg"],"environment":{"A":"1"},"timeout":3000,"type":"local"}`,
		`{"enabled":false,"headers":{"Authorization":"Bearer x"},"type":"remote","url":"https://mcp.example.com"}`,
	}

	for _, input := range inputs {
		srv, enabled, err := toServer("s", json.RawMessage(input))
		if err != nil {
			t.Fatalf("toServer(%s) error = %v", input, err)
		}
		got, err := fromServer(srv, enabled)
		if err != nil {
			t.Fatalf("fromServer() error = %v", err)
		}
		if string(got) != input {
			t.Errorf("round trip:\ngot:  %s\nwant: %s", got, input)
		}
	}
}
