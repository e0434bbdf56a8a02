package usb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireSwapsInNeutralAndReleaseRestores(t *testing.T) {
	port := NewMemoryPort("serial-console")
	guard := NewGuard(port, nil)

	token, err := guard.Acquire()
	require.NoError(t, err)

	cfg, _ := port.Config()
	assert.Equal(t, Neutral, cfg)
	assert.Equal(t, Config("serial-console"), token.Previous())

	require.NoError(t, token.Release())
	cfg, _ = port.Config()
	assert.Equal(t, Config("serial-console"), cfg)
	assert.Equal(t, []Config{Neutral, "serial-console"}, port.History())
}

func TestAcquireWhenLockedIsBusyAndLeavesPortAlone(t *testing.T) {
	port := NewMemoryPort("rpc")
	port.SetLocked(true)
	guard := NewGuard(port, nil)

	token, err := guard.Acquire()

	assert.Nil(t, token)
	assert.ErrorIs(t, err, ErrBusy)
	cfg, _ := port.Config()
	assert.Equal(t, Config("rpc"), cfg)
	assert.Empty(t, port.History())
}

func TestAcquireLockQueryErrorIsBusy(t *testing.T) {
	port := NewMemoryPort("rpc")
	port.LockErr = errors.New("permission denied")

	_, err := NewGuard(port, nil).Acquire()

	assert.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, port.History())
}

func TestAcquireSwitchFailureHoldsNothing(t *testing.T) {
	port := NewMemoryPort("rpc")
	port.SetErr = errors.New("device gone")

	token, err := NewGuard(port, nil).Acquire()

	assert.Nil(t, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)
}

func TestReleaseIsSingleUse(t *testing.T) {
	port := NewMemoryPort("hid")
	token, err := NewGuard(port, nil).Acquire()
	require.NoError(t, err)

	require.NoError(t, token.Release())
	port.SetConfig("something-else")

	assert.ErrorIs(t, token.Release(), ErrTokenReleased)
	cfg, _ := port.Config()
	assert.Equal(t, Config("something-else"), cfg)
}

func TestReleaseRestoresAfterPlaybackReconfigured(t *testing.T) {
	port := NewMemoryPort(Neutral)
	token, err := NewGuard(port, nil).Acquire()
	require.NoError(t, err)

	require.NoError(t, port.SetConfig("keyboard"))
	require.NoError(t, token.Release())

	cfg, _ := port.Config()
	assert.Equal(t, Neutral, cfg)
}

func TestConfigString(t *testing.T) {
	assert.Equal(t, "<none>", Neutral.String())
	assert.Equal(t, "g1", Config("g1").String())
}

func TestAcquireOnFailedPortIsNotBusy(t *testing.T) {
	guard := NewGuard(FailedPort{Err: errors.New("no udc controller found")}, nil)

	token, err := guard.Acquire()

	assert.Nil(t, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)
}
