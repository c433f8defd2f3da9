package model

import (
	"path/filepath"
	"strings"
	"time"
)

// FileInfo is a discovered media file. It only lives for one batch run.
type FileInfo struct {
	FullPath string
	ModTime  time.Time
	Name     string
}

// Dir returns the directory holding the file.
func (f FileInfo) Dir() string {
	return filepath.Dir(f.FullPath)
}

// Ext returns the file extension as found on disk, including the dot.
func (f FileInfo) Ext() string {
	return filepath.Ext(f.Name)
}

// BaseName returns the file name without its extension.
func (f FileInfo) BaseName() string {
	return strings.TrimSuffix(f.Name, f.Ext())
}
