package main

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatthiasKunnen/slock/internal/config"
)

func TestRunVersion(t *testing.T) {
	assert.NoError(t, run([]string{"-v"}))
}

func TestRunUnknownFlag(t *testing.T) {
	assert.Error(t, run([]string{"-unknown"}))
}

func TestRunMissingConfig(t *testing.T) {
	err := run([]string{"-config", filepath.Join(t.TempDir(), "none.toml")})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func waitPostLock(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("post-lock command did not exit")
		return nil
	}
}

func TestStartPostLock(t *testing.T) {
	done, err := startPostLock([]string{"true"})
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.NoError(t, waitPostLock(t, done))
}

func TestStartPostLockFailingCommand(t *testing.T) {
	done, err := startPostLock([]string{"sh", "-c", "exit 3"})
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Error(t, waitPostLock(t, done))
}

func TestStartPostLockNotFound(t *testing.T) {
	done, err := startPostLock([]string{"slock-no-such-command"})
	assert.NoError(t, err)
	assert.Nil(t, done)
}

func TestStartPostLockNone(t *testing.T) {
	done, err := startPostLock(nil)
	assert.NoError(t, err)
	assert.Nil(t, done)
}

type fakeHint struct {
	states []bool
	closed bool
}

func (h *fakeHint) GetLocked() (bool, error) {
	if len(h.states) == 0 {
		return false, nil
	}
	return h.states[len(h.states)-1], nil
}

func (h *fakeHint) SetLocked(locked bool) error {
	h.states = append(h.states, locked)
	return nil
}

func (h *fakeHint) Close() error {
	h.closed = true
	return nil
}

type fakeKeyrings struct {
	locked []string
	all    bool
	err    error
	closed bool
}

func (k *fakeKeyrings) Lock(paths []string) error {
	k.locked = append(k.locked, paths...)
	return k.err
}

func (k *fakeKeyrings) LockAll() error {
	k.all = true
	return k.err
}

func (k *fakeKeyrings) Close() error {
	k.closed = true
	return nil
}

type fakeCloser struct {
	closed int
	err    error
}

func (c *fakeCloser) Close() error {
	c.closed++
	return c.err
}

func TestDesktopLifecycle(t *testing.T) {
	hint := &fakeHint{}
	keyrings := &fakeKeyrings{}
	sleepLock := &fakeCloser{}
	d := &desktop{
		cfg:       config.Desktop{LockKeyrings: []string{"login"}},
		hint:      hint,
		sleepLock: sleepLock,
		keyrings:  keyrings,
	}

	d.locked()
	assert.Equal(t, 1, sleepLock.closed)
	assert.Equal(t, []bool{true}, hint.states)
	assert.Equal(t, []string{"login"}, keyrings.locked)
	assert.False(t, keyrings.all)

	d.unlocked()
	assert.Equal(t, []bool{true, false}, hint.states)

	require.NoError(t, d.Close())
	assert.Equal(t, 1, sleepLock.closed)
	assert.True(t, hint.closed)
	assert.True(t, keyrings.closed)
}

func TestDesktopLockAllKeyrings(t *testing.T) {
	keyrings := &fakeKeyrings{err: errors.New("no such collection")}
	d := &desktop{
		cfg:      config.Desktop{LockKeyrings: []string{config.AllKeyrings}},
		keyrings: keyrings,
	}

	d.locked()
	assert.True(t, keyrings.all)
	assert.Empty(t, keyrings.locked)
}

func TestDesktopWithoutServices(t *testing.T) {
	d := &desktop{}

	d.locked()
	d.unlocked()
	assert.NoError(t, d.Close())
}

func TestDesktopCloseReleasesSleepLock(t *testing.T) {
	sleepLock := &fakeCloser{}
	inhibitor := &fakeCloser{err: errors.New("bus gone")}
	d := &desktop{sleepLock: sleepLock, inhibitor: inhibitor}

	err := d.Close()
	assert.EqualError(t, err, "bus gone")
	assert.Equal(t, 1, sleepLock.closed)
	assert.Equal(t, 1, inhibitor.closed)
}
