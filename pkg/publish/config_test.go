package publish

import "testing"

func TestResolveModeDefaultsToDryRun(t *testing.T) {
	if mode := ResolveMode(nil); mode != ModeDryRun {
		t.Errorf("expected dry-run default, got %q", mode)
	}
	if mode := ResolveMode([]string{"--content", "hello"}); mode != ModeDryRun {
		t.Errorf("expected dry-run default, got %q", mode)
	}
}

func TestResolveModeLastFlagWins(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want Mode
	}{
		{"publish only", []string{"--publish"}, ModePublish},
		{"publish then dry-run", []string{"--publish", "--dry-run"}, ModeDryRun},
		{"dry-run then publish", []string{"--dry-run", "--publish"}, ModePublish},
		{"explicit false", []string{"--publish", "--publish=false"}, ModeDryRun},
		{"dry-run disabled", []string{"--dry-run=false"}, ModePublish},
		{"mixed with other flags", []string{"--content", "x", "--dry-run", "--content-uri", "y", "--publish"}, ModePublish},
		{"numeric true", []string{"--publish=1"}, ModePublish},
		{"numeric false", []string{"--dry-run=0"}, ModePublish},
		{"short true", []string{"--publish=t"}, ModePublish},
		{"uppercase true", []string{"--dry-run=TRUE", "--publish=TRUE"}, ModePublish},
		{"unparseable value ignored", []string{"--publish", "--dry-run=maybe"}, ModePublish},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveMode(tc.args); got != tc.want {
				t.Errorf("ResolveMode(%v) = %q, want %q", tc.args, got, tc.want)
			}
		})
	}
}

func TestResolveModeSkipsFlagValues(t *testing.T) {
	args := []string{"--content", "--publish"}
	if got := ResolveMode(args, "--content"); got != ModeDryRun {
		t.Errorf("a flag value spelled like a mode flag must not flip the mode, got %q", got)
	}

	args = []string{"--content", "--dry-run", "--publish"}
	if got := ResolveMode(args, "--content"); got != ModePublish {
		t.Errorf("ResolveMode(%v) = %q, want %q", args, got, ModePublish)
	}
}

func TestResolveModeStopsAtTerminator(t *testing.T) {
	args := []string{"--publish", "--", "--dry-run"}
	if got := ResolveMode(args); got != ModePublish {
		t.Errorf("arguments after -- must be ignored, got %q", got)
	}
}

func TestRunConfigValidate(t *testing.T) {
	err := RunConfig{}.Validate()
	if err == nil {
		t.Fatal("expected an error when content and content URI are both empty")
	}
	if KindOf(err) != KindConfiguration {
		t.Errorf("expected configuration kind, got %q", KindOf(err))
	}

	if err := (RunConfig{Content: "hello"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (RunConfig{ContentURI: "lens://abc"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWillUploadMetadata(t *testing.T) {
	if !(RunConfig{Content: "hello"}).WillUploadMetadata() {
		t.Error("content alone should trigger an upload")
	}
	if (RunConfig{Content: "hello", ContentURI: "lens://abc"}).WillUploadMetadata() {
		t.Error("a supplied content URI should suppress the upload")
	}
	if (RunConfig{ContentURI: "lens://abc"}).WillUploadMetadata() {
		t.Error("a content URI alone should not trigger an upload")
	}
}
