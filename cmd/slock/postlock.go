package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
)

// startPostLock starts args as an independent process and returns a channel that receives its
// exit result. A command that cannot be found is logged and does not affect the lock; failing
// to start a found command is an error.
//
// The child does not inherit the display connection: every descriptor Go opens is close-on-exec.
func startPostLock(args []string) (<-chan error, error) {
	if len(args) == 0 {
		return nil, nil
	}

	path, err := exec.LookPath(args[0])
	if err != nil {
		log.Printf("execvp %s failed: %v", args[0], err)
		return nil, nil
	}

	cmd := &exec.Cmd{
		Path:   path,
		Args:   args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("fork failed: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		if err != nil {
			log.Printf("%s: %v", args[0], err)
		}
		done <- err
	}()

	return done, nil
}
