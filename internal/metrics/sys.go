package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SysHealth is a point-in-time snapshot of process and storage health.
type SysHealth struct {
	AllocMB       uint64
	TotalAllocMB  uint64
	SysMB         uint64
	NumGC         uint32
	Goroutines    int
	DatabaseSize  string
	GuestDataSize string
}

// GetSysHealth collects runtime stats plus the on-disk size of the SQLite
// database and the guest JSON directory.
func GetSysHealth(dbPath, guestDir string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:       m.Alloc / 1024 / 1024,
		TotalAllocMB:  m.TotalAlloc / 1024 / 1024,
		SysMB:         m.Sys / 1024 / 1024,
		NumGC:         m.NumGC,
		Goroutines:    runtime.NumGoroutine(),
		DatabaseSize:  humanSize(pathSize(dbPath)),
		GuestDataSize: humanSize(pathSize(guestDir)),
	}
}

// pathSize totals the bytes under path. A single file counts as itself and a
// missing path counts as zero.
func pathSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func humanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
