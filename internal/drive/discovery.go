package drive

import (
	"os"
	"path/filepath"

	"github.com/crussella0129/diffr/internal/core"
)

// Mount describes a candidate drive observed by a Discoverer: a mount point
// and, where available, a stable hardware identity and capacity figures.
type Mount struct {
	MountPoint string
	Identity   *core.DriveIdentity // nil if no stable hardware serial could be read
	TotalBytes *uint64
	FreeBytes  *uint64
}

// Discoverer enumerates storage volumes attached to the host. The core
// depends only on this interface (spec.md's "dynamic dispatch over platform
// discovery" decision); platform-specific serial-number enumeration is left
// to a real implementation a deployment can plug in later.
type Discoverer interface {
	// ListMounts returns every candidate mount currently visible to the
	// host.
	ListMounts() ([]Mount, error)
	// Capacity reports total/free bytes for path's filesystem, or
	// (nil, nil, nil) if the platform backend cannot determine them.
	Capacity(path string) (total, free *uint64, err error)
}

// candidateRoots are the conventional mount parents checked by
// genericDiscoverer across the platforms diffr is likely to run on.
var candidateRoots = []string{"/media", "/mnt", "/Volumes"}

// genericDiscoverer is a portable Discoverer that lists subdirectories of
// conventional mount roots and reports capacity via statfsCapacity (platform
// files). It never produces a hardware Identity — every Mount it returns has
// Identity == nil, so callers fall back to LoadOrCreateIdentity's synthetic
// UUID. Real serial-number enumeration is OS-specific and out of scope here;
// this is the fallback the interface exists to make swappable.
type genericDiscoverer struct{}

// NewGenericDiscoverer returns the portable fallback Discoverer.
func NewGenericDiscoverer() Discoverer {
	return genericDiscoverer{}
}

func (genericDiscoverer) ListMounts() ([]Mount, error) {
	var mounts []Mount
	for _, root := range candidateRoots {
		children, err := os.ReadDir(root)
		if err != nil {
			continue // root doesn't exist or isn't readable on this host
		}
		for _, child := range children {
			if !child.IsDir() {
				continue
			}
			mountPoint := filepath.Join(root, child.Name())
			mount := Mount{MountPoint: mountPoint}
			if total, free, err := statfsCapacity(mountPoint); err == nil {
				mount.TotalBytes = total
				mount.FreeBytes = free
			}
			mounts = append(mounts, mount)
		}
	}
	return mounts, nil
}

func (genericDiscoverer) Capacity(path string) (*uint64, *uint64, error) {
	return statfsCapacity(path)
}
