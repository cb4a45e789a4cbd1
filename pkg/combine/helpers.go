package combine

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	permFile = 0o644
	permDir  = 0o755
)

// WriteDocument renders doc to outputPath through a temporary file in the
// same directory and renames it into place. On failure no file is left at
// outputPath and the error wraps ErrOutputWrite.
func WriteDocument(fs afero.Fs, outputPath string, doc *Document, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, outputPath, err)
	}
	dir := filepath.Dir(abs)
	if err := ensureDirectory(fs, dir, logger); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrOutputWrite, dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, abs, err)
	}
	tmpName := tmp.Name()

	writer := bufio.NewWriter(tmp)
	err = Encode(writer, doc)
	if err == nil {
		err = writer.Flush()
	}
	err = multierr.Append(err, tmp.Close())
	if err == nil {
		err = fs.Chmod(tmpName, permFile)
	}
	if err == nil {
		err = fs.Rename(tmpName, abs)
	}
	if err != nil {
		if rmErr := fs.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("Failed to remove temporary file", zap.String("file", tmpName), zap.Error(rmErr))
		}
		logger.Error("Failed to write output file", zap.String("file", abs), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, abs, err)
	}

	logger.Debug("Successfully wrote file", zap.String("path", abs))
	return nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(fs afero.Fs, path string, logger *zap.Logger) error {
	if info, err := fs.Stat(path); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", path)
		}
		return nil
	}
	if err := fs.MkdirAll(path, permDir); err != nil {
		return err
	}
	logger.Info("Created output directory", zap.String("path", path))
	return nil
}
