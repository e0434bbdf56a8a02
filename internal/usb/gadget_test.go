package usb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGadgetTree(t *testing.T, bound map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, udc := range bound {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "UDC"), []byte(udc+"\n"), 0o644))
	}
	return root
}

func readUDC(t *testing.T, root, gadget string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, gadget, "UDC"))
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestGadgetPortConfig(t *testing.T) {
	root := newGadgetTree(t, map[string]string{"acm": "fe980000.usb", "hid": ""})
	port := &GadgetPort{GadgetDir: root, UDC: "fe980000.usb"}

	cfg, err := port.Config()

	require.NoError(t, err)
	assert.Equal(t, Config("acm"), cfg)
}

func TestGadgetPortConfigNeutral(t *testing.T) {
	root := newGadgetTree(t, map[string]string{"acm": "", "hid": ""})
	port := &GadgetPort{GadgetDir: root, UDC: "fe980000.usb"}

	cfg, err := port.Config()

	require.NoError(t, err)
	assert.Equal(t, Neutral, cfg)
}

func TestGadgetPortSwitchesBinding(t *testing.T) {
	root := newGadgetTree(t, map[string]string{"acm": "fe980000.usb", "hid": ""})
	port := &GadgetPort{GadgetDir: root, UDC: "fe980000.usb"}

	require.NoError(t, port.SetConfig(Neutral))
	assert.Equal(t, "", readUDC(t, root, "acm"))

	require.NoError(t, port.SetConfig("hid"))
	assert.Equal(t, "fe980000.usb", readUDC(t, root, "hid"))

	require.NoError(t, port.SetConfig("acm"))
	assert.Equal(t, "", readUDC(t, root, "hid"))
	assert.Equal(t, "fe980000.usb", readUDC(t, root, "acm"))
}

func TestGadgetPortGuardRoundTrip(t *testing.T) {
	root := newGadgetTree(t, map[string]string{"acm": "fe980000.usb", "hid": ""})
	port := &GadgetPort{GadgetDir: root, UDC: "fe980000.usb", LockFile: filepath.Join(root, "missing.lock")}

	token, err := NewGuard(port, nil).Acquire()
	require.NoError(t, err)
	cfg, _ := port.Config()
	assert.Equal(t, Neutral, cfg)

	require.NoError(t, token.Release())
	cfg, _ = port.Config()
	assert.Equal(t, Config("acm"), cfg)
}

func TestDetectUDC(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "musb-hdrc.1"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "fe980000.usb"), 0o755))

	udc, err := detectUDC(dir)

	require.NoError(t, err)
	assert.Equal(t, "fe980000.usb", udc)

	_, err = detectUDC(t.TempDir())
	assert.Error(t, err)
}
