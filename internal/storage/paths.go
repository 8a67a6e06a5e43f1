package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	dataDirName  = "mhxy"
	dataFileName = "mhxy.db"
)

// Mode selects where the data file lives.
type Mode string

const (
	// ModeDev roots the data file one directory above the working
	// directory so the file sits next to the source checkout.
	ModeDev Mode = "dev"
	// ModeRelease places the data file under the platform's per-user
	// application data directory.
	ModeRelease Mode = "release"
)

// ResolveDataPath returns the path of the data file for the given mode and
// creates its parent directories. A missing HOME or APPDATA is a fatal
// error surfaced to the caller.
func ResolveDataPath(mode Mode) (string, error) {
	var path string
	switch mode {
	case ModeDev:
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve data path: %w", err)
		}
		root := filepath.Dir(cwd)
		path = filepath.Join(root, dataFileName)
	case ModeRelease, "":
		dir, err := userDataDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, dataDirName, dataFileName)
	default:
		return "", fmt.Errorf("resolve data path: unknown mode %q", mode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("resolve data path: create parent dir: %w", err)
	}
	return path, nil
}

func userDataDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("resolve data path: APPDATA is not set")
		}
		return appData, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve data path: %w", err)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support"), nil
	}

	dataHome := filepath.Join(home, ".local", "share")
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		dataHome = xdgDataHome
	}
	return dataHome, nil
}
