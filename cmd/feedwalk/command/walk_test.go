package command

import (
	"strings"
	"testing"
)

func TestWalkCommand_HelpAndSynopsis(t *testing.T) {
	cmd := &WalkCommand{}

	if !strings.Contains(cmd.Help(), "feedwalk walk") {
		t.Error("Help() should mention the command usage")
	}
	if cmd.Synopsis() == "" {
		t.Error("Synopsis() should not be empty")
	}
}

func TestWalkCommand_RequiresFeedURL(t *testing.T) {
	cmd := &WalkCommand{ShutDownCh: make(chan struct{})}

	if code := cmd.Run([]string{"-user-agent", "Test/1.0"}); code != 1 {
		t.Errorf("Run without feed URL = %d, want 1", code)
	}
}

func TestWalkCommand_RequiresUserAgent(t *testing.T) {
	cmd := &WalkCommand{ShutDownCh: make(chan struct{})}

	if code := cmd.Run([]string{"https://example.org/feed"}); code != 1 {
		t.Errorf("Run without user agent = %d, want 1", code)
	}
}

func TestServeCommand_HelpAndSynopsis(t *testing.T) {
	cmd := &ServeCommand{}

	if !strings.Contains(cmd.Help(), "feedwalk serve") {
		t.Error("Help() should mention the command usage")
	}
	if cmd.Synopsis() == "" {
		t.Error("Synopsis() should not be empty")
	}
}
