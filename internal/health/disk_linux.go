// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux

package health

import "golang.org/x/sys/unix"

func diskUsage(path string) *DiskUsage {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return nil
	}

	total := st.Blocks * uint64(st.Bsize)
	free := st.Bavail * uint64(st.Bsize)
	used := total - free
	if total == 0 {
		return nil
	}

	const gb = 1 << 30
	return &DiskUsage{
		TotalGB:      total / gb,
		UsedGB:       used / gb,
		FreeGB:       free / gb,
		UsagePercent: float64(used) / float64(total) * 100,
	}
}
