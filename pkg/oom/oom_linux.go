//go:build linux

package oom

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

const (
	scoreAdjPath = "/proc/self/oom_score_adj"
	// scoreAdjMin is OOM_SCORE_ADJ_MIN from linux/oom.h.
	scoreAdjMin = -1000
)

// Protect sets the process' OOM score adjustment to the minimum.
// Kernels without oom_score_adj are silently accepted.
func Protect() error {
	return protect(scoreAdjPath)
}

func protect(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if errors.Is(err, unix.ENOENT) {
		return nil
	} else if err != nil {
		return fmt.Errorf("fopen %s: %w", path, err)
	}

	_, err = f.WriteString(strconv.Itoa(scoreAdjMin))
	err = errors.Join(err, f.Close())
	if errors.Is(err, unix.EACCES) {
		return errors.New("unable to disable OOM killer, make sure to suid or sgid slock")
	} else if err != nil {
		return fmt.Errorf("fclose %s: %w", path, err)
	}

	return nil
}
