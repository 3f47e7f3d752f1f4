package logscan

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/samber/lo"
)

// DefaultHorizon is the analyzer's file recency horizon. Twelve hours keeps a
// full window plus cooldown cycle of evidence in view.
const DefaultHorizon = 12 * time.Hour

type candidateFile struct {
	path    string
	modTime time.Time
}

// SelectRecent lists regular files in dir whose modification time falls within
// horizon of now, newest first. Unreadable entries are skipped, not fatal.
func SelectRecent(dir string, horizon time.Duration, now time.Time) []string {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("logscan level=warn event=select_read_dir_failed dir=%s error=%v", dir, err)
		return nil
	}

	cutoff := now.Add(-horizon)
	var files []candidateFile
	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			log.Printf("logscan level=warn event=select_stat_failed file=%s error=%v", entry.Name(), err)
			continue
		}
		files = append(files, candidateFile{
			path:    filepath.Join(dir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	files = lo.Filter(files, func(f candidateFile, _ int) bool {
		return f.modTime.After(cutoff)
	})

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	return lo.Map(files, func(f candidateFile, _ int) string { return f.path })
}
