package network_connector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
)

// WPASupplicantConnector joins a network by handing a one-network
// config to a fresh wpa_supplicant and leasing an address with dhclient.
type WPASupplicantConnector struct {
	ifname string
	config wifimgr.Config
	ifaces Interfaces
	procs  Processes
	log    wifimgr.Logger
}

func (t *WPASupplicantConnector) supplicant() string {
	return filepath.Base(t.config.WPASupplicantBin)
}

func (t *WPASupplicantConnector) Connect(ssid, password string) bool {
	if err := wifimgr.ValidateSSID(ssid); err != nil {
		t.log.Errorf("Refusing to connect: %v", err)
		return false
	}
	if err := wifimgr.ValidatePassphrase(password); err != nil {
		t.log.Errorf("Refusing to connect to %s: %v", ssid, err)
		return false
	}

	conf, err := wifimgr.WriteTempFile(t.config.TmpDir, "wifimgr-wpa-*.conf", RenderConfig(t.config, ssid, password))
	if err != nil {
		t.log.Errorf("Failed to write wpa_supplicant config: %v", err)
		return false
	}
	defer os.Remove(conf)

	if err := t.procs.Terminate(t.supplicant()); err != nil {
		t.log.Warnf("Failed to stop running wpa_supplicant: %v", err)
	}

	err = t.procs.Start(t.config.WPASupplicantBin,
		"-B",
		"-i", t.ifname,
		"-c", conf,
		"-D", "nl80211,wext",
	)
	if err != nil {
		t.log.Errorf("Failed to start wpa_supplicant for interface %s: %v", t.ifname, err)
		return false
	}

	ok := false
	defer func() {
		if ok {
			return
		}
		if err := t.procs.Terminate(t.supplicant()); err != nil {
			t.log.Warnf("Failed to stop wpa_supplicant after failed connect: %v", err)
		}
	}()

	t.log.Infof("Attempting to connect to WiFi network: %s", ssid)
	time.Sleep(t.config.AssociateSettle)

	if _, err := t.procs.Run(t.config.DHCPClientBin, "-1", t.ifname); err != nil {
		t.log.Warnf("DHCP lease on %s failed: %v", t.ifname, err)
	}

	if !t.ifaces.HasIPv4(t.ifname) {
		t.log.Errorf("Failed to connect to WiFi network: %s, no IPv4 address on %s", ssid, t.ifname)
		return false
	}

	ok = true
	t.log.Infof("Successfully connected to WiFi network: %s", ssid)
	return true
}

// Disconnect always succeeds; individual teardown failures are logged.
func (t *WPASupplicantConnector) Disconnect() bool {
	if err := t.procs.Terminate(t.supplicant()); err != nil {
		t.log.Warnf("Failed to stop wpa_supplicant: %v", err)
	}
	if _, err := t.procs.Run(t.config.DHCPClientBin, "-r", t.ifname); err != nil {
		t.log.Warnf("Failed to release DHCP lease on %s: %v", t.ifname, err)
	}

	// Bounce the link so the driver drops any association state.
	if err := t.ifaces.Down(t.ifname); err != nil {
		t.log.Warnf("%v", err)
	}
	time.Sleep(t.config.LinkSettle)
	if err := t.ifaces.Up(t.ifname); err != nil {
		t.log.Warnf("%v", err)
	}

	t.log.Infof("Disconnected %s", t.ifname)
	return true
}

func (t *WPASupplicantConnector) Status() wifimgr.ConnectionStatus {
	if !t.ifaces.IsUp(t.ifname) {
		return wifimgr.StatusDisconnected
	}
	if !t.ifaces.HasIPv4(t.ifname) {
		return wifimgr.StatusConnecting
	}
	if !t.procs.IsRunning(t.supplicant()) {
		return wifimgr.StatusError
	}
	return wifimgr.StatusConnected
}

// RenderConfig produces a wpa_supplicant config holding exactly one
// network block. Inputs must already be validated.
func RenderConfig(config wifimgr.Config, ssid, password string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ctrl_interface=%s\n", config.CtrlInterface)
	if config.CountryCode != "" {
		fmt.Fprintf(&b, "country=%s\n", config.CountryCode)
	}
	b.WriteString("network={\n")
	fmt.Fprintf(&b, "\tssid=\"%s\"\n", ssid)
	if password == "" {
		b.WriteString("\tkey_mgmt=NONE\n")
	} else {
		b.WriteString("\tkey_mgmt=WPA-PSK\n")
		fmt.Fprintf(&b, "\tpsk=\"%s\"\n", password)
	}
	b.WriteString("}\n")
	return b.String()
}
