//go:build linux

package network

import (
	"fmt"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
	network_connector "github.com/dogeorg/wifimgr/pkg/system/network/connector"
	network_hotspot "github.com/dogeorg/wifimgr/pkg/system/network/hotspot"
	network_iface "github.com/dogeorg/wifimgr/pkg/system/network/iface"
	network_nat "github.com/dogeorg/wifimgr/pkg/system/network/nat"
	network_process "github.com/dogeorg/wifimgr/pkg/system/network/process"
	network_wifi "github.com/dogeorg/wifimgr/pkg/system/network/wifi"
	"github.com/sirupsen/logrus"
)

var _ wifimgr.Backend = &BackendLinux{}

type station interface {
	Connect(ssid, password string) bool
	Disconnect() bool
	Status() wifimgr.ConnectionStatus
}

type hotspot interface {
	Create(ssid, password string) bool
	Stop() bool
	Active() bool
	Supported() bool
	State() wifimgr.HotspotState
}

// BackendLinux drives one WiFi interface through nl80211, rtnetlink,
// nftables and the wpa_supplicant/hostapd/dnsmasq helpers.
type BackendLinux struct {
	scanner network_wifi.WifiScanner
	station station
	hotspot hotspot
	log     wifimgr.Logger
}

// NewBackend wires the Linux backend together. It either returns a
// fully usable backend or an error with every socket closed.
func NewBackend(config wifimgr.Config, log logrus.FieldLogger) (wifimgr.Backend, error) {
	scanner, err := network_wifi.NewNL80211Scanner(config, log.WithField("component", "scanner"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise nl80211: %w", err)
	}

	nat, err := network_nat.NewNFTables(config.NATTable)
	if err != nil {
		_ = scanner.Close()
		return nil, err
	}

	ifname := scanner.Interface().Name
	ctl := network_iface.NewController()
	procs := network_process.NewSupervisor(config, log.WithField("component", "process"))

	connector := network_connector.NewNetworkConnector(ifname, config, ctl, procs, log.WithField("component", "connector"))
	hs := network_hotspot.NewHostapd(ifname, config, ctl, procs, nat, connector, scanner, log.WithField("component", "hotspot"))

	return &BackendLinux{
		scanner: scanner,
		station: connector,
		hotspot: hs,
		log:     log,
	}, nil
}

func (t *BackendLinux) Scan() []wifimgr.Network {
	return t.scanner.Scan()
}

func (t *BackendLinux) Connect(ssid, password string) bool {
	return t.station.Connect(ssid, password)
}

func (t *BackendLinux) Disconnect() bool {
	return t.station.Disconnect()
}

func (t *BackendLinux) Status() wifimgr.ConnectionStatus {
	return t.station.Status()
}

func (t *BackendLinux) CreateHotspot(ssid, password string) bool {
	return t.hotspot.Create(ssid, password)
}

func (t *BackendLinux) StopHotspot() bool {
	return t.hotspot.Stop()
}

func (t *BackendLinux) IsHotspotActive() bool {
	return t.hotspot.Active()
}

func (t *BackendLinux) IsHotspotSupported() bool {
	return t.hotspot.Supported()
}

// HotspotState reports the recorded hotspot resources. Unlike
// IsHotspotActive it does not look at the process table.
func (t *BackendLinux) HotspotState() wifimgr.HotspotState {
	return t.hotspot.State()
}

func (t *BackendLinux) Interface() string {
	return t.scanner.Interface().Name
}

func (t *BackendLinux) Close() error {
	t.log.Debugf("Closing nl80211 socket")
	return t.scanner.Close()
}
