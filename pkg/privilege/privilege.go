package privilege

import (
	"errors"
	"fmt"
	"os/user"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// Target is the identity privileges are dropped to.
type Target struct {
	User  string
	Group string
	UID   int
	GID   int
}

// LookupTarget resolves the drop-target user and group by name.
func LookupTarget(userName, groupName string) (Target, error) {
	u, err := user.Lookup(userName)
	if err != nil {
		return Target{}, fmt.Errorf("getpwnam %s: %s", userName, describeLookup(err, "user"))
	}
	g, err := user.LookupGroup(groupName)
	if err != nil {
		return Target{}, fmt.Errorf("getgrnam %s: %s", groupName, describeLookup(err, "group"))
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Target{}, fmt.Errorf("getpwnam %s: invalid uid %q", userName, u.Uid)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return Target{}, fmt.Errorf("getgrnam %s: invalid gid %q", groupName, g.Gid)
	}

	return Target{User: userName, Group: groupName, UID: uid, GID: gid}, nil
}

func describeLookup(err error, kind string) string {
	var unknownUser user.UnknownUserError
	var unknownGroup user.UnknownGroupError
	if errors.As(err, &unknownUser) || errors.As(err, &unknownGroup) {
		return kind + " entry not found"
	}

	return err.Error()
}

// Syscalls performs the credential changes. Tests substitute their own.
type Syscalls struct {
	Setgroups func(gids []int) error
	Setgid    func(gid int) error
	Setuid    func(uid int) error
}

// System changes the credentials of every thread of the process.
var System = Syscalls{
	Setgroups: syscall.Setgroups,
	Setgid:    syscall.Setgid,
	Setuid:    syscall.Setuid,
}

// Drop clears the supplementary groups, then sets the group id, then the user id.
// The first failure is returned and nothing further is attempted; callers must treat any error
// as fatal since the process may be left partially privileged.
func (s Syscalls) Drop(t Target) error {
	if err := s.Setgroups([]int{}); err != nil {
		return fmt.Errorf("setgroups: %w", err)
	}
	if err := s.Setgid(t.GID); err != nil {
		return fmt.Errorf("setgid: %w", err)
	}
	if err := s.Setuid(t.UID); err != nil {
		return fmt.Errorf("setuid: %w", err)
	}

	return nil
}

// Drop drops the privileges of the running process to t.
func Drop(t Target) error {
	return System.Drop(t)
}

// DisableCoreDumps marks the process non-dumpable so the credential hash and typed passwords
// never end up in a core file or become readable through /proc by the same user.
func DisableCoreDumps() error {
	if err := unix.Prctl(unix.PR_SET_DUMPABLE, 0, 0, 0, 0); err != nil {
		return fmt.Errorf("prctl PR_SET_DUMPABLE: %w", err)
	}

	return nil
}
