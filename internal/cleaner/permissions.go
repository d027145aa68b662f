package cleaner

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// unlinkAccess decides whether the effective user may unlink an entry
type unlinkAccess struct {
	euid int
}

func newUnlinkAccess() unlinkAccess {
	return unlinkAccess{euid: unix.Geteuid()}
}

// check returns nil when the entry at path, already Lstat'd as info, can
// be unlinked. Unlinking needs a writable, searchable parent; under a
// sticky parent the user must also own the parent or the entry.
// Directories are removed recursively, so their top level must be
// writable as well. Deeper failures surface from the removal itself.
func (a unlinkAccess) check(path string, info fs.FileInfo) error {
	if err := refuseSpecial(path, info.Mode()); err != nil {
		return err
	}
	if a.euid == 0 {
		return nil
	}

	parent := filepath.Dir(path)
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return accessError(path, fmt.Errorf("parent directory is not writable: %w", err), err)
	}

	var parentStat unix.Stat_t
	if err := unix.Stat(parent, &parentStat); err != nil {
		return CategorizeError(parent, err)
	}
	if parentStat.Mode&unix.S_ISVTX != 0 {
		var entryStat unix.Stat_t
		if err := unix.Lstat(path, &entryStat); err != nil {
			return CategorizeError(path, err)
		}
		uid := uint32(a.euid)
		if parentStat.Uid != uid && entryStat.Uid != uid {
			return NewError(ErrorPermissionDenied, path, fmt.Errorf("owned by another user in a sticky directory"))
		}
	}

	if info.IsDir() {
		if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
			return accessError(path, fmt.Errorf("directory is not writable: %w", err), err)
		}
	}
	return nil
}

// accessError maps an access(2) failure to a reason
func accessError(path string, wrapped, errno error) *OpError {
	switch errno {
	case unix.EACCES, unix.EPERM, unix.EROFS:
		return NewError(ErrorPermissionDenied, path, wrapped)
	default:
		return CategorizeError(path, wrapped)
	}
}

// refuseSpecial rejects devices, sockets and pipes. Symlinks are fine:
// they are removed, never followed.
func refuseSpecial(path string, mode fs.FileMode) error {
	var kind string
	switch {
	case mode&fs.ModeCharDevice != 0:
		kind = "character device"
	case mode&fs.ModeDevice != 0:
		kind = "device file"
	case mode&fs.ModeSocket != 0:
		kind = "socket"
	case mode&fs.ModeNamedPipe != 0:
		kind = "named pipe"
	default:
		return nil
	}
	return NewError(ErrorInvalidPath, path, fmt.Errorf("refusing to delete a %s", kind))
}
