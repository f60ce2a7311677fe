package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRun_SeedsUsersAsJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-database-url", "memory://", "-count", "3", "-prefix", "demo", "-format", "json"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr.String())
	}

	var users []output
	if err := json.Unmarshal(stdout.Bytes(), &users); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for i, u := range users {
		if u.ID == "" {
			t.Errorf("user %d has no id", i)
		}
		if !strings.HasPrefix(u.Email, "demo-") || !strings.HasSuffix(u.Email, "@example.com") {
			t.Errorf("unexpected email %q", u.Email)
		}
	}
}

func TestRun_PlainOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-database-url", "memory://", "-count", "2"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr.String())
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), stdout.String())
	}
	if fields := strings.Split(lines[0], "\t"); len(fields) != 3 {
		t.Errorf("expected id, name, email columns, got %q", lines[0])
	}
}

func TestRun_RejectsBadInput(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing url", nil, "DATABASE_URL is required"},
		{"zero count", []string{"-database-url", "memory://", "-count", "0"}, "count must be at least 1"},
		{"bad format", []string{"-database-url", "memory://", "-format", "xml"}, "invalid format"},
		{"unknown scheme", []string{"-database-url", "mysql://localhost/db"}, "connect store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr.String(), tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.want)
			}
			if stdout.Len() != 0 {
				t.Errorf("expected no output, got %q", stdout.String())
			}
		})
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-nope"}, &stdout, &stderr); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
