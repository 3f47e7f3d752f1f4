package logscan

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

// Source is the outcome of log-directory resolution. Absence of a log
// directory is a normal result, not an error: callers downgrade to a default
// usage report instead of failing.
type Source struct {
	Dir   string
	Found bool
}

// CandidateDirs returns the platform-specific directories that may hold the
// assistant's log files, in probe order. An explicit override (from config or
// environment) is authoritative: it is the only candidate, so a missing
// override surfaces as "source unavailable" instead of silently analyzing the
// host's default log location.
func CandidateDirs(override string) []string {
	if override != "" {
		return []string{override}
	}

	var dirs []string
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			dirs = append(dirs, filepath.Join(appData, "Claude", "logs"))
		}
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			dirs = append(dirs, filepath.Join(localAppData, "Claude", "logs"))
		}
	case "darwin":
		home, _ := os.UserHomeDir()
		dirs = append(dirs,
			filepath.Join(home, "Library", "Logs", "Claude"),
			filepath.Join(home, ".config", "Claude", "logs"),
		)
	default:
		home, _ := os.UserHomeDir()
		dirs = append(dirs,
			filepath.Join(home, ".config", "Claude", "logs"),
			filepath.Join(home, ".local", "share", "Claude", "logs"),
		)
	}
	return dirs
}

// Resolve returns the first candidate that exists and is a directory.
func Resolve(candidates []string) Source {
	for _, dir := range candidates {
		info, err := os.Stat(dir)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			continue
		}
		log.Printf("logscan level=info event=source_resolved dir=%s", dir)
		return Source{Dir: dir, Found: true}
	}
	log.Printf("logscan level=info event=source_unavailable candidates=%d", len(candidates))
	return Source{}
}
