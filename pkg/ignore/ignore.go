// Package ignore matches slash-separated relative paths against
// gitignore-style exclusion patterns.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileName is the per-root ignore file picked up during a directory scan.
const FileName = ".codexmlignore"

// Pattern encapsulates a compiled regular expression pattern,
// a negation flag, and metadata about the pattern's origin.
type Pattern struct {
	Regexp *regexp.Regexp // Compiled regular expression for the pattern.
	Negate bool           // Pattern started with '!'.
	Line   string         // Original pattern line.
	Source string         // File the pattern came from, empty for inline patterns.
}

// Matcher is an ordered set of ignore patterns. Later patterns win.
type Matcher struct {
	patterns []*Pattern
	logger   *zap.Logger
}

// New returns an empty Matcher. A nil logger is replaced by a no-op logger.
func New(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// Len reports the number of compiled patterns.
func (m *Matcher) Len() int { return len(m.patterns) }

// CompileLines compiles inline pattern lines, e.g. from command-line flags.
func (m *Matcher) CompileLines(lines ...string) {
	m.compile("", lines)
}

// CompileFile reads an ignore file from fs and compiles its lines.
// A missing file is not an error.
func (m *Matcher) CompileFile(fs afero.Fs, path string) error {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", path))
			return nil
		}
		return fmt.Errorf("read ignore file %s: %w", path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	before := len(m.patterns)
	m.compile(path, lines)
	m.logger.Debug("Compiled ignore file",
		zap.String("filePath", path),
		zap.Int("patternCount", len(m.patterns)-before))
	return nil
}

func (m *Matcher) compile(source string, lines []string) {
	for _, line := range lines {
		re, negate, ok := parsePatternLine(line)
		if !ok {
			continue
		}
		m.patterns = append(m.patterns, &Pattern{
			Regexp: re,
			Negate: negate,
			Line:   line,
			Source: source,
		})
	}
}

// MatchesPath reports whether rel, a path relative to the scan root, is ignored.
func (m *Matcher) MatchesPath(rel string, isDir bool) bool {
	matched, _ := m.MatchesPathWithPattern(rel, isDir)
	return matched
}

// MatchesPathWithPattern is MatchesPath that also returns the last pattern
// that matched, negated or not.
func (m *Matcher) MatchesPathWithPattern(rel string, isDir bool) (bool, *Pattern) {
	if m == nil || len(m.patterns) == 0 {
		return false, nil
	}
	p := normalizePath(rel, isDir)

	var (
		matched bool
		last    *Pattern
	)
	for _, pattern := range m.patterns {
		if pattern.Regexp.MatchString(p) {
			matched = !pattern.Negate
			last = pattern
		}
	}
	return matched, last
}

// normalizePath converts separators to '/' and marks directories with a trailing slash.
func normalizePath(rel string, isDir bool) string {
	p := strings.TrimPrefix(filepath.ToSlash(rel), "./")
	if isDir && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// parsePatternLine turns one ignore line into an anchored regular expression.
// ok is false for blank lines, comments and patterns that fail to compile.
func parsePatternLine(line string) (re *regexp.Regexp, negate bool, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false, false
	}

	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = trimmed[1:]
	}
	if strings.HasPrefix(trimmed, `\#`) || strings.HasPrefix(trimmed, `\!`) {
		trimmed = trimmed[1:]
	}

	dirOnly := strings.HasSuffix(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")

	rooted := strings.HasPrefix(trimmed, "/")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return nil, false, false
	}

	var expr strings.Builder
	expr.WriteString("^")
	if !rooted {
		expr.WriteString("(.*/)?")
	}
	expr.WriteString(globToRegex(trimmed))
	if dirOnly {
		expr.WriteString("/.*$")
	} else {
		expr.WriteString("(/.*)?$")
	}

	compiled, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, false, false
	}
	return compiled, negate, true
}

// globToRegex converts '*', '?' and '**' wildcards, quoting everything else.
func globToRegex(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch {
		case c == '*' && i+1 < len(glob) && glob[i+1] == '*':
			i++
			if i+1 < len(glob) && glob[i+1] == '/' {
				// "**/" spans zero or more directories
				i++
				b.WriteString("(.*/)?")
			} else {
				b.WriteString(".*")
			}
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}
