//go:build darwin || linux

package drive

import "golang.org/x/sys/unix"

// statfsCapacity reports total/free bytes for path's filesystem using
// statfs, available on both Linux and Darwin.
func statfsCapacity(path string) (total, free *uint64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return nil, nil, err
	}
	t := uint64(stat.Blocks) * uint64(stat.Bsize)
	f := uint64(stat.Bavail) * uint64(stat.Bsize)
	return &t, &f, nil
}
