package network_hotspot

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
)

/* Hostapd
 *
 * Hostapd turns the WiFi interface into an access point:
 * hostapd for the radio, dnsmasq for DHCP, a static address
 * on the interface and NAT towards whichever interface holds
 * the default route. Everything acquired during Create is
 * released again if a later step fails, and Stop releases
 * the lot.
 */

type Hostapd struct {
	ifname     string
	config     wifimgr.Config
	ifaces     Interfaces
	procs      Processes
	nat        NAT
	station    Station
	capability APCapability
	log        wifimgr.Logger

	state wifimgr.HotspotState
}

func NewHostapd(
	ifname string,
	config wifimgr.Config,
	ifaces Interfaces,
	procs Processes,
	nat NAT,
	station Station,
	capability APCapability,
	log wifimgr.Logger,
) *Hostapd {
	return &Hostapd{
		ifname:     ifname,
		config:     config,
		ifaces:     ifaces,
		procs:      procs,
		nat:        nat,
		station:    station,
		capability: capability,
		log:        log,
	}
}

func (t *Hostapd) hostapd() string { return filepath.Base(t.config.HostapdBin) }
func (t *Hostapd) dnsmasq() string { return filepath.Base(t.config.DnsmasqBin) }

func (t *Hostapd) address() string {
	return fmt.Sprintf("%s/%d", t.config.HotspotAddress, t.config.HotspotPrefix)
}

func (t *Hostapd) Create(ssid, password string) bool {
	if err := wifimgr.ValidateSSID(ssid); err != nil {
		t.log.Errorf("Refusing to create hotspot: %v", err)
		return false
	}
	if err := wifimgr.ValidatePassphrase(password); err != nil {
		t.log.Errorf("Refusing to create hotspot %s: %v", ssid, err)
		return false
	}

	t.Stop()
	t.station.Disconnect()

	var cleanup undo
	ok := false
	defer func() {
		if !ok {
			t.log.Warnf("Hotspot setup on %s failed, rolling back", t.ifname)
			cleanup.run()
		}
	}()

	hostapdConf, err := wifimgr.WriteTempFile(t.config.TmpDir, "wifimgr-hostapd-*.conf", RenderHostapdConfig(t.config, t.ifname, ssid, password))
	if err != nil {
		t.log.Errorf("Failed to write hostapd config: %v", err)
		return false
	}
	cleanup.push(func() { os.Remove(hostapdConf) })

	if err := t.ifaces.FlushIPv4(t.ifname); err != nil {
		t.log.Warnf("%v", err)
	}
	if err := t.ifaces.AddIPv4(t.ifname, t.address()); err != nil {
		t.log.Errorf("Failed to address hotspot interface: %v", err)
		return false
	}
	cleanup.push(func() { _ = t.ifaces.FlushIPv4(t.ifname) })

	if err := t.ifaces.Up(t.ifname); err != nil {
		t.log.Errorf("%v", err)
		return false
	}

	if err := t.procs.Start(t.config.HostapdBin, "-B", hostapdConf); err != nil {
		t.log.Errorf("Failed to start hostapd: %v", err)
		return false
	}
	cleanup.push(func() { _ = t.procs.Terminate(t.hostapd()) })

	dhcpConf, err := wifimgr.WriteTempFile(t.config.TmpDir, "wifimgr-dnsmasq-*.conf", RenderDnsmasqConfig(t.config, t.ifname))
	if err != nil {
		t.log.Errorf("Failed to write dnsmasq config: %v", err)
		return false
	}
	cleanup.push(func() { os.Remove(dhcpConf) })

	if err := t.procs.Start(t.config.DnsmasqBin, "-C", dhcpConf); err != nil {
		t.log.Errorf("Failed to start dnsmasq: %v", err)
		return false
	}
	cleanup.push(func() { _ = t.procs.Terminate(t.dnsmasq()) })

	if err := t.ifaces.SetIPv4Forwarding(true); err != nil {
		t.log.Errorf("%v", err)
		return false
	}
	cleanup.push(func() { _ = t.ifaces.SetIPv4Forwarding(false) })

	wan, err := t.ifaces.DefaultRouteInterface()
	if err != nil {
		t.log.Warnf("No uplink for hotspot: %v", err)
	}
	if wan != "" && wan != t.ifname {
		if err := t.nat.Install(t.ifname, wan); err != nil {
			t.log.Errorf("Failed to set up NAT from %s to %s: %v", t.ifname, wan, err)
			return false
		}
		t.log.Infof("Sharing uplink %s with hotspot clients", wan)
	} else {
		t.log.Infof("Hotspot %s has no uplink, clients get local access only", ssid)
	}

	t.state = wifimgr.HotspotState{
		Active:        true,
		HostapdConfig: hostapdConf,
		DHCPConfig:    dhcpConf,
		Interface:     t.ifname,
	}
	ok = true

	t.log.Infof("Hotspot %s up on %s at %s", ssid, t.ifname, t.address())
	return true
}

// Stop tears down the hotspot. A hostapd found running without recorded
// state, such as one left by an earlier process, is torn down the same
// way. Teardown errors are logged and never fail the call.
func (t *Hostapd) Stop() bool {
	if !t.state.Active {
		if !t.Active() {
			return true
		}
		t.log.Infof("Found running hostapd with no recorded hotspot, tearing it down")
	}

	if err := t.procs.Terminate(t.hostapd()); err != nil {
		t.log.Warnf("Failed to stop hostapd: %v", err)
	}
	if err := t.procs.Terminate(t.dnsmasq()); err != nil {
		t.log.Warnf("Failed to stop dnsmasq: %v", err)
	}

	for _, f := range []string{t.state.HostapdConfig, t.state.DHCPConfig} {
		if f != "" {
			os.Remove(f)
		}
	}

	if err := t.nat.Remove(); err != nil {
		t.log.Warnf("%v", err)
	}
	if err := t.ifaces.SetIPv4Forwarding(false); err != nil {
		t.log.Warnf("%v", err)
	}
	if err := t.ifaces.FlushIPv4(t.ifname); err != nil {
		t.log.Warnf("%v", err)
	}
	if err := t.ifaces.Down(t.ifname); err != nil {
		t.log.Warnf("%v", err)
	}
	time.Sleep(t.config.LinkSettle)
	if err := t.ifaces.Up(t.ifname); err != nil {
		t.log.Warnf("%v", err)
	}

	t.state = wifimgr.HotspotState{}
	t.log.Infof("Hotspot on %s stopped", t.ifname)
	return true
}

// Active probes the process table rather than trusting recorded state.
func (t *Hostapd) Active() bool {
	return t.procs.IsRunning(t.hostapd())
}

func (t *Hostapd) Supported() bool {
	if _, err := t.procs.LookPath(t.config.HostapdBin); err != nil {
		t.log.Debugf("hostapd not available: %v", err)
		return false
	}
	ok, err := t.capability.SupportsAP()
	if err != nil {
		t.log.Warnf("Could not query AP support: %v", err)
		return false
	}
	return ok
}

func (t *Hostapd) State() wifimgr.HotspotState {
	return t.state
}

// RenderHostapdConfig adds a WPA2-PSK block only when password is set.
func RenderHostapdConfig(config wifimgr.Config, ifname, ssid, password string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "interface=%s\n", ifname)
	b.WriteString("driver=nl80211\n")
	fmt.Fprintf(&b, "ssid=%s\n", ssid)
	fmt.Fprintf(&b, "hw_mode=%s\n", config.HotspotHWMode)
	fmt.Fprintf(&b, "channel=%d\n", config.HotspotChannel)
	b.WriteString("ieee80211n=1\n")
	b.WriteString("wmm_enabled=1\n")
	if config.CountryCode != "" {
		fmt.Fprintf(&b, "country_code=%s\n", config.CountryCode)
	}
	if password != "" {
		b.WriteString("wpa=2\n")
		fmt.Fprintf(&b, "wpa_passphrase=%s\n", password)
		b.WriteString("wpa_key_mgmt=WPA-PSK\n")
		b.WriteString("rsn_pairwise=CCMP\n")
	}
	return b.String()
}

func RenderDnsmasqConfig(config wifimgr.Config, ifname string) string {
	netmask := net.IP(net.CIDRMask(config.HotspotPrefix, 32)).String()

	var b strings.Builder
	fmt.Fprintf(&b, "interface=%s\n", ifname)
	b.WriteString("bind-interfaces\n")
	fmt.Fprintf(&b, "dhcp-range=%s,%s,%s,%s\n", config.DHCPRangeStart, config.DHCPRangeEnd, netmask, config.DHCPLease)
	return b.String()
}
