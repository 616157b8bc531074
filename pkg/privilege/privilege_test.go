package privilege

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
	fail  string
}

func (r *recorder) syscalls() Syscalls {
	step := func(name string) error {
		r.calls = append(r.calls, name)
		if name == r.fail {
			return errors.New("operation not permitted")
		}
		return nil
	}
	return Syscalls{
		Setgroups: func(gids []int) error {
			if len(gids) != 0 {
				return errors.New("expected empty group list")
			}
			return step("setgroups")
		},
		Setgid: func(int) error { return step("setgid") },
		Setuid: func(int) error { return step("setuid") },
	}
}

func TestDropOrder(t *testing.T) {
	r := &recorder{}
	require.NoError(t, r.syscalls().Drop(Target{UID: 65534, GID: 65534}))
	assert.Equal(t, []string{"setgroups", "setgid", "setuid"}, r.calls)
}

func TestDropStopsAtFirstFailure(t *testing.T) {
	for _, tc := range []struct {
		fail  string
		calls []string
	}{
		{fail: "setgroups", calls: []string{"setgroups"}},
		{fail: "setgid", calls: []string{"setgroups", "setgid"}},
		{fail: "setuid", calls: []string{"setgroups", "setgid", "setuid"}},
	} {
		t.Run(tc.fail, func(t *testing.T) {
			r := &recorder{fail: tc.fail}
			err := r.syscalls().Drop(Target{UID: 65534, GID: 65534})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.fail+":")
			assert.Equal(t, tc.calls, r.calls)
		})
	}
}

func TestLookupTargetMissing(t *testing.T) {
	_, err := LookupTarget("slock-no-such-user", "root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getpwnam slock-no-such-user")

	_, err = LookupTarget("root", "slock-no-such-group")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getgrnam slock-no-such-group")
}

func TestLookupTargetRoot(t *testing.T) {
	target, err := LookupTarget("root", "root")
	require.NoError(t, err)
	assert.Equal(t, 0, target.UID)
	assert.Equal(t, 0, target.GID)
}
