package combine

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Builder reads files into a Document.
type Builder struct {
	fs     afero.Fs
	policy ReadPolicy
	logger *zap.Logger
}

// NewBuilder returns a Builder applying policy to unreadable files.
func NewBuilder(fs afero.Fs, policy ReadPolicy, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == "" {
		policy = ReadPolicySkip
	}
	return &Builder{fs: fs, policy: policy, logger: logger}
}

// Build reads paths in order. Under ReadPolicySkip the paths of files left
// out are returned in skipped; under ReadPolicyFail the first read error
// aborts the build.
func (b *Builder) Build(paths []string) (doc *Document, skipped []string, err error) {
	doc = &Document{Records: make([]FileRecord, 0, len(paths))}

	for _, path := range paths {
		record, readErr := b.ProcessSingleFile(path)
		if readErr == nil {
			doc.Add(record)
			continue
		}

		switch b.policy {
		case ReadPolicyFail:
			b.logger.Error("Failed to read file", zap.String("filePath", path), zap.Error(readErr))
			return nil, nil, readErr
		case ReadPolicyEmbed:
			b.logger.Warn("Failed to read file, embedding error message",
				zap.String("filePath", path), zap.Error(readErr))
			doc.Add(FileRecord{
				Filename: filepath.Base(path),
				Filepath: path,
				Contents: fmt.Sprintf("Error reading file: %v", errorCause(readErr)),
			})
		default:
			b.logger.Warn("Skipping unreadable file", zap.String("filePath", path), zap.Error(readErr))
			skipped = append(skipped, path)
		}
	}

	return doc, skipped, nil
}

// ProcessSingleFile reads one file into a record. The file is closed before
// returning on every path.
func (b *Builder) ProcessSingleFile(path string) (FileRecord, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileRecord{}, &readError{path: path, err: err}
	}

	f, err := b.fs.Open(abs)
	if err != nil {
		return FileRecord{}, &readError{path: abs, err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return FileRecord{}, &readError{path: abs, err: err}
	}
	if err := checkText(data); err != nil {
		return FileRecord{}, &readError{path: abs, err: err}
	}

	b.logger.Debug("Read file", zap.String("filePath", abs), zap.Int("sizeBytes", len(data)))
	return FileRecord{
		Filename: filepath.Base(abs),
		Filepath: abs,
		Contents: string(data),
	}, nil
}

// readError is an ErrFileRead for a specific path.
type readError struct {
	path string
	err  error
}

func (e *readError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrFileRead, e.path, e.err)
}

func (e *readError) Unwrap() []error { return []error{ErrFileRead, e.err} }

func errorCause(err error) error {
	if re, ok := err.(*readError); ok {
		return re.err
	}
	return err
}
