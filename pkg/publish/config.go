package publish

import (
	"strconv"
	"strings"

	"github.com/openclaw/lenspost-go/pkg/shared"
)

// Mode selects between previewing and executing a run.
type Mode string

const (
	ModeDryRun  Mode = "dry-run"
	ModePublish Mode = "publish"
)

// RunConfig is the immutable configuration of one run.
type RunConfig struct {
	Content     string
	ContentURI  string
	Environment shared.Environment
	App         string
	Account     string
	Feed        string
	Mode        Mode
	VerifyURI   bool
}

// Validate checks the invariants enforced at entry: something must drive
// the post metadata, either inline content or a content URI.
func (c RunConfig) Validate() error {
	if strings.TrimSpace(c.Content) == "" && strings.TrimSpace(c.ContentURI) == "" {
		return Errorf(KindConfiguration, "either content or a content URI is required")
	}
	return nil
}

// WillUploadMetadata reports whether the run uploads fresh metadata: a
// caller-supplied content URI always wins over inline content.
func (c RunConfig) WillUploadMetadata() bool {
	return strings.TrimSpace(c.ContentURI) == "" && strings.TrimSpace(c.Content) != ""
}

// ResolvedContentURI returns the caller-supplied content URI, if any.
func (c RunConfig) ResolvedContentURI() string {
	return strings.TrimSpace(c.ContentURI)
}

// ResolveMode decides between publish and dry-run from the raw argument
// list. The two flags are mutually exclusive and the last one mentioned
// wins; absent both, dry-run is the default. Attached values use the
// boolean spellings the flag parser accepts (true/false, t/f, 1/0).
// valueFlags names flags that consume the following argument, so their
// values are never mistaken for mode flags.
func ResolveMode(args []string, valueFlags ...string) Mode {
	consumesValue := make(map[string]bool, len(valueFlags))
	for _, name := range valueFlags {
		consumesValue[name] = true
	}

	mode := ModeDryRun
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if consumesValue[arg] {
			i++
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if name != "--publish" && name != "--dry-run" {
			continue
		}
		enabled := true
		if hasValue {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				// The flag parser rejects the run before it starts.
				continue
			}
			enabled = parsed
		}
		if (name == "--publish") == enabled {
			mode = ModePublish
		} else {
			mode = ModeDryRun
		}
	}
	return mode
}
