package wifimgr

import (
	"errors"
	"io"
)

var ErrNoBackend = errors.New("no wifi backend")

/* WifiManager
 *
 * WifiManager owns exactly one Backend, picked once at startup
 * by the platform detection in ./system/network, and forwards
 * every call to it. Callers are expected to serialise access.
 */

type WifiManager struct {
	backend Backend
	log     Logger
}

func NewWifiManager(backend Backend, log Logger) (*WifiManager, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	log.Infof("WifiManager initialised with %T", backend)
	return &WifiManager{backend: backend, log: log}, nil
}

func (t *WifiManager) Scan() []Network {
	networks := t.backend.Scan()
	t.log.Debugf("scan returned %d networks", len(networks))
	return networks
}

func (t *WifiManager) Connect(ssid, password string) bool {
	return t.backend.Connect(ssid, password)
}

func (t *WifiManager) Disconnect() bool {
	return t.backend.Disconnect()
}

func (t *WifiManager) Status() ConnectionStatus {
	return t.backend.Status()
}

func (t *WifiManager) CreateHotspot(ssid, password string) bool {
	return t.backend.CreateHotspot(ssid, password)
}

func (t *WifiManager) StopHotspot() bool {
	return t.backend.StopHotspot()
}

func (t *WifiManager) IsHotspotActive() bool {
	return t.backend.IsHotspotActive()
}

func (t *WifiManager) IsHotspotSupported() bool {
	return t.backend.IsHotspotSupported()
}

// Close releases the backend's OS resources if it holds any.
func (t *WifiManager) Close() error {
	if c, ok := t.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
