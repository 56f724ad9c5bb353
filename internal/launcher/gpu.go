package launcher

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// GPUStatus describes what DetectGPUAccess found in the device directory
type GPUStatus struct {
	// Present is true when the device directory exists
	Present bool

	// Nodes are the render and card nodes found, as full paths
	Nodes []string

	// Inaccessible are the nodes the process cannot open for read and write
	Inaccessible []string
}

// Usable reports whether at least one GPU node can be opened by this process
func (s GPUStatus) Usable() bool {
	return len(s.Nodes) > len(s.Inaccessible)
}

// DetectGPUAccess inspects dir for DRM render and card nodes and logs a
// warning when hardware transcoding will not be available. It never fails:
// a missing directory simply means no GPU was mapped into the container.
func DetectGPUAccess(logger *slog.Logger, dir string) GPUStatus {
	var status GPUStatus

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no GPU device directory, skipping hardware acceleration check", "dir", dir)
			return status
		}
		status.Present = true
		logger.Warn("cannot read GPU device directory, hardware acceleration may be unavailable",
			"dir", dir,
			"error", err)
		return status
	}
	status.Present = true

	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "renderD") && !strings.HasPrefix(name, "card") {
			continue
		}
		path := filepath.Join(dir, name)
		status.Nodes = append(status.Nodes, path)
		if unix.Access(path, unix.R_OK|unix.W_OK) != nil {
			status.Inaccessible = append(status.Inaccessible, path)
		}
	}

	switch {
	case len(status.Nodes) == 0:
		logger.Warn("GPU device directory has no render or card nodes, hardware acceleration is unavailable; "+
			"map the host's /dev/dri devices into the container and add the host's video and render group IDs "+
			"as supplemental groups (the IDs differ between distributions, check with `getent group video render`)",
			"dir", dir)
	case len(status.Inaccessible) > 0:
		logger.Warn("GPU device nodes are not accessible, hardware acceleration may fail; "+
			"add the host's video and render group IDs as supplemental groups "+
			"(the IDs differ between distributions, check with `getent group video render`)",
			"dir", dir,
			"uid", os.Getuid(),
			"inaccessible", status.Inaccessible)
	default:
		logger.Debug("GPU device nodes available", "nodes", status.Nodes)
	}

	return status
}
