//go:build linux

package network

import (
	"testing"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
	network_wifi "github.com/dogeorg/wifimgr/pkg/system/network/wifi"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type fakeScanner struct {
	networks []wifimgr.Network
	closed   bool
}

func (f *fakeScanner) Interface() network_wifi.Interface {
	return network_wifi.Interface{Name: "wlan0", Index: 3}
}
func (f *fakeScanner) Scan() []wifimgr.Network   { return f.networks }
func (f *fakeScanner) SupportsAP() (bool, error) { return true, nil }
func (f *fakeScanner) Close() error {
	f.closed = true
	return nil
}

type fakeStation struct {
	connected bool
}

func (f *fakeStation) Connect(ssid, password string) bool {
	f.connected = ssid == "home"
	return f.connected
}
func (f *fakeStation) Disconnect() bool {
	f.connected = false
	return true
}
func (f *fakeStation) Status() wifimgr.ConnectionStatus {
	if f.connected {
		return wifimgr.StatusConnected
	}
	return wifimgr.StatusDisconnected
}

type fakeHotspot struct {
	state wifimgr.HotspotState
}

func (f *fakeHotspot) Create(ssid, password string) bool {
	f.state = wifimgr.HotspotState{Active: true, HostapdConfig: "/tmp/h", DHCPConfig: "/tmp/d", Interface: "wlan0"}
	return true
}
func (f *fakeHotspot) Stop() bool {
	f.state = wifimgr.HotspotState{}
	return true
}
func (f *fakeHotspot) Active() bool                { return f.state.Active }
func (f *fakeHotspot) Supported() bool             { return true }
func (f *fakeHotspot) State() wifimgr.HotspotState { return f.state }

func TestBackendLinux(t *testing.T) {
	logger, _ := test.NewNullLogger()
	scanner := &fakeScanner{networks: []wifimgr.Network{{SSID: "home"}}}
	b := &BackendLinux{
		scanner: scanner,
		station: &fakeStation{},
		hotspot: &fakeHotspot{},
		log:     logger,
	}

	assert.Equal(t, "wlan0", b.Interface())
	assert.Len(t, b.Scan(), 1)

	assert.Equal(t, wifimgr.StatusDisconnected, b.Status())
	assert.True(t, b.Disconnect())
	assert.False(t, b.Connect("elsewhere", ""))
	assert.True(t, b.Connect("home", "correct horse"))
	assert.Equal(t, wifimgr.StatusConnected, b.Status())

	assert.True(t, b.IsHotspotSupported())
	assert.False(t, b.IsHotspotActive())
	assert.True(t, b.CreateHotspot("doge", ""))
	assert.True(t, b.IsHotspotActive())
	assert.Equal(t, "wlan0", b.HotspotState().Interface)
	assert.True(t, b.StopHotspot())
	assert.True(t, b.StopHotspot())
	assert.Equal(t, wifimgr.HotspotState{}, b.HotspotState())

	assert.NoError(t, b.Close())
	assert.True(t, scanner.closed)
}
