package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
)

var ErrorFileAlreadyExists = errors.New("file already exists")

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderLocal
	}
	return provider
}

func reportsDir() string {
	dir := strings.TrimSpace(os.Getenv("REPORTS_DIR"))
	if dir == "" {
		dir = "reports_data"
	}
	return dir
}

func EnsureReportsDir() (string, error) {
	dir := reportsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func MonthlyReportPath(year int, month int) string {
	return fmt.Sprintf("monthly/%d-%02d-fechamento.xlsx", year, month)
}

func MonthlyOfficialReportPath(year int, month int) string {
	return fmt.Sprintf("monthly_official/%d-%02d-relatorio-oficial.xlsx", year, month)
}

// SaveReportBytes persists a rendered report artifact and returns the stored
// relative path. Local writes go through a temp file and rename so a crashed
// write never leaves a partial artifact behind. With overwrite=false an
// existing artifact is a storage conflict, not a silent replace.
func SaveReportBytes(ctx context.Context, relativePath string, content []byte, overwrite bool) (string, error) {
	if GetStorageProvider() == StorageProviderGCS {
		return saveReportBytesToGCS(ctx, relativePath, content, overwrite)
	}

	baseDir, err := EnsureReportsDir()
	if err != nil {
		return "", err
	}
	finalPath := filepath.Join(baseDir, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return "", err
	}

	if !overwrite {
		if _, err := os.Stat(finalPath); err == nil {
			return "", ErrorFileAlreadyExists
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(finalPath), ".report-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, finalPath); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return relativePath, nil
}

// ReadReportBytes loads a stored artifact back (download endpoints).
func ReadReportBytes(ctx context.Context, relativePath string) ([]byte, error) {
	if GetStorageProvider() == StorageProviderGCS {
		return readReportBytesFromGCS(ctx, relativePath)
	}
	baseDir, err := EnsureReportsDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(relativePath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrorRecordNotFound
		}
		return nil, err
	}
	return data, nil
}
