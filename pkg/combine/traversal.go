package combine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codexml/pkg/ignore"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Collector resolves a scan root and explicit files into an ordered,
// duplicate-free list of absolute paths.
type Collector struct {
	fs         afero.Fs
	extensions map[string]struct{}
	patterns   []string
	logger     *zap.Logger
}

// maxLinkHops bounds symlink resolution of the scan root, matching the
// kernel's ELOOP limit.
const maxLinkHops = 40

// NewCollector returns a Collector that scans for the given extensions and
// excludes paths matching patterns. Empty extensions select DefaultExtensions.
func NewCollector(fs afero.Fs, extensions, patterns []string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	normalized := NormalizeExtensions(extensions)
	if len(normalized) == 0 {
		normalized = DefaultExtensions
	}
	set := make(map[string]struct{}, len(normalized))
	for _, ext := range normalized {
		set[ext] = struct{}{}
	}
	return &Collector{
		fs:         fs,
		extensions: set,
		patterns:   patterns,
		logger:     logger,
	}
}

// Allowed reports whether path has one of the collector's extensions.
func (c *Collector) Allowed(path string) bool {
	_, ok := c.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Collect validates root and files, then returns explicit files in the order
// given followed by scanned files in lexical order. A path already present
// keeps its first position.
func (c *Collector) Collect(root string, files []string) ([]string, error) {
	var absRoot string
	if root != "" {
		var err error
		absRoot, err = c.resolveRoot(root)
		if err != nil {
			return nil, err
		}
	}

	explicit, err := c.resolveFiles(files)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(explicit))
	collected := make([]string, 0, len(explicit))
	add := func(path string) bool {
		if _, ok := seen[path]; ok {
			return false
		}
		seen[path] = struct{}{}
		collected = append(collected, path)
		return true
	}

	for _, path := range explicit {
		if !add(path) {
			c.logger.Debug("Duplicate explicit file ignored", zap.String("filePath", path))
		}
	}
	c.logger.Info("Adding individual files", zap.Int("count", len(collected)))

	if absRoot != "" {
		scanned, err := c.scan(absRoot)
		if err != nil {
			return nil, err
		}
		c.logger.Info("Found files in directory",
			zap.String("directory", absRoot),
			zap.Int("count", len(scanned)))
		for _, path := range scanned {
			if !add(path) {
				c.logger.Debug("Scanned file already listed explicitly", zap.String("filePath", path))
			}
		}
	}

	c.logger.Info("Total unique files to process", zap.Int("count", len(collected)))
	return collected, nil
}

func (c *Collector) resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidDirectory, root, err)
	}
	info, err := c.fs.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidDirectory, abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidDirectory, abs)
	}
	return c.followLinks(abs), nil
}

// followLinks resolves root while it is itself a symlink, since afero.Walk
// lstats the root and would not descend into a linked directory. Filesystems
// without link support return root unchanged.
func (c *Collector) followLinks(root string) string {
	lstater, ok := c.fs.(afero.Lstater)
	if !ok {
		return root
	}
	reader, ok := c.fs.(afero.LinkReader)
	if !ok {
		return root
	}
	path := root
	for range maxLinkHops {
		info, _, err := lstater.LstatIfPossible(path)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			return path
		}
		target, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return path
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		c.logger.Debug("Following symlinked directory", zap.String("link", path), zap.String("target", target))
		path = filepath.Clean(target)
	}
	return path
}

func (c *Collector) resolveFiles(files []string) ([]string, error) {
	resolved := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPathNotFound, f, err)
		}
		info, err := c.fs.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPathNotFound, abs, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory, not a file", ErrPathNotFound, abs)
		}
		resolved = append(resolved, abs)
	}
	return resolved, nil
}

// scan walks root and returns allowed, non-ignored regular files.
func (c *Collector) scan(root string) ([]string, error) {
	matcher := ignore.New(c.logger)
	if err := matcher.CompileFile(c.fs, filepath.Join(root, ignore.FileName)); err != nil {
		c.logger.Warn("Failed to load ignore file", zap.String("directory", root), zap.Error(err))
	}
	matcher.CompileLines(c.patterns...)
	c.logger.Debug("Scanning directory",
		zap.String("directory", root),
		zap.Strings("extensions", c.extensionList()),
		zap.Int("ignorePatterns", matcher.Len()))

	var files []string
	err := afero.Walk(c.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			c.logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == root {
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if ignored, pattern := matcher.MatchesPathWithPattern(relPath, info.IsDir()); ignored {
			c.logger.Debug("Skipping ignored path",
				zap.String("path", relPath),
				zap.String("pattern", pattern.Line),
				zap.String("source", pattern.Source))
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !c.Allowed(path) {
			return nil
		}
		if !c.isRegular(path, info) {
			c.logger.Debug("Skipping non-regular file", zap.String("path", path))
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDirectory, root, err)
	}
	return files, nil
}

// isRegular accepts regular files and symlinks that resolve to one.
func (c *Collector) isRegular(path string, info os.FileInfo) bool {
	if info.Mode().IsRegular() {
		return true
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := c.fs.Stat(path)
	return err == nil && target.Mode().IsRegular()
}

func (c *Collector) extensionList() []string {
	list := make([]string, 0, len(c.extensions))
	for ext := range c.extensions {
		list = append(list, ext)
	}
	return list
}
