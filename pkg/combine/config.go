package combine

import (
	"fmt"
	"strings"
)

// DefaultExtensions is the allow-set used when no extensions are configured.
var DefaultExtensions = []string{".py", ".ts", ".jsx", ".js", ".tsx"}

// ReadPolicy decides what happens to a file that cannot be read as text.
type ReadPolicy string

const (
	// ReadPolicySkip logs a warning and leaves the file out of the document.
	ReadPolicySkip ReadPolicy = "skip"
	// ReadPolicyFail aborts the run with ErrFileRead.
	ReadPolicyFail ReadPolicy = "fail"
	// ReadPolicyEmbed keeps the record and stores the error message as its contents.
	ReadPolicyEmbed ReadPolicy = "embed"
)

// ParseReadPolicy validates a policy name. The empty string selects ReadPolicySkip.
func ParseReadPolicy(s string) (ReadPolicy, error) {
	switch p := ReadPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ReadPolicySkip, nil
	case ReadPolicySkip, ReadPolicyFail, ReadPolicyEmbed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown read error policy %q (want %s, %s or %s)",
			s, ReadPolicySkip, ReadPolicyFail, ReadPolicyEmbed)
	}
}

// Options holds the configuration of a single run.
type Options struct {
	InputDir   string     // Directory to scan recursively; empty disables the scan.
	Files      []string   // Files included regardless of extension.
	Output     string     // Destination path of the XML document.
	Extensions []string   // Allowed extensions for the scan; empty means DefaultExtensions.
	Ignore     []string   // Extra ignore patterns applied to the scan.
	ReadPolicy ReadPolicy // Handling of unreadable files; empty means ReadPolicySkip.
}

// NormalizeExtensions lowercases extensions, adds the leading dot and drops
// blanks and duplicates, keeping first-seen order.
func NormalizeExtensions(extensions []string) []string {
	seen := make(map[string]struct{}, len(extensions))
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}
