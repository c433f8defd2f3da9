package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	apperrors "transcribe-all/internal/app/errors"
	"transcribe-all/internal/app/model"
)

// DefaultExtensions is the allow-list used when none is configured.
var DefaultExtensions = []string{".mp3", ".mp4"}

const transcriptSuffix = "_transcript.txt"

// NormalizeExtensions lower-cases the extensions, adds the leading dot where
// missing and drops blanks and duplicates.
func NormalizeExtensions(extensions []string) []string {
	normalized := lo.FilterMap(extensions, func(ext string, _ int) (string, bool) {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			return "", false
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext, true
	})
	return lo.Uniq(normalized)
}

// HasExtension reports whether name ends with one of the normalized extensions,
// ignoring case.
func HasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	return lo.SomeBy(extensions, func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}

// FindMediaFiles walks root recursively and returns every regular file, or
// symlink to one, whose name ends with one of extensions. Order is the walk order. An empty result
// is not an error.
func FindMediaFiles(root string, extensions []string) ([]model.FileInfo, error) {
	extensions = NormalizeExtensions(extensions)
	fileInfos := make([]model.FileInfo, 0)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !HasExtension(d.Name(), extensions) {
			return nil
		}

		var info fs.FileInfo
		switch {
		case d.Type().IsRegular():
			if info, err = d.Info(); err != nil {
				return err
			}
		case d.Type()&fs.ModeSymlink != 0:
			// Links to files are included; links to directories are not followed.
			target, statErr := os.Stat(path)
			if statErr != nil || !target.Mode().IsRegular() {
				return nil
			}
			info = target
		default:
			return nil
		}
		fileInfos = append(fileInfos, model.FileInfo{
			FullPath: path,
			ModTime:  info.ModTime(),
			Name:     d.Name(),
		})
		return nil
	})
	if err != nil {
		return nil, apperrors.Mark(apperrors.ErrDiscoveryFailed, apperrors.Wrapf(err, "walk %s", root))
	}

	return fileInfos, nil
}

// TranscriptPath maps an input file to <outputDir>/<base>_transcript.txt.
func TranscriptPath(outputDir string, inputPath string) string {
	name := filepath.Base(inputPath)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(outputDir, base+transcriptSuffix)
}

// EnsureDir creates dir and any missing parents. Existing directories are fine.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Mark(apperrors.ErrFileWriteFailed, apperrors.Wrapf(err, "create directory %s", dir))
	}
	return nil
}

// WriteToFile writes content to filePath, truncating any existing file.
func WriteToFile(content string, filePath string) error {
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return apperrors.Mark(apperrors.ErrFileWriteFailed, apperrors.Wrapf(err, "write %s", filePath))
	}
	return nil
}

// ReadOutputFile reads the specified output file and returns its text content.
func ReadOutputFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(content)), nil
}

// GetAbsolutePath resolves path against the working directory.
func GetAbsolutePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Abs(path)
}
