package wifimgr

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the Linux backend. Values come from
// WIFIMGR_* environment variables and may be overridden by CLI flags.
type Config struct {
	// Interface pins the WiFi interface; empty picks the first station.
	Interface string `envconfig:"INTERFACE"`
	TmpDir    string `envconfig:"TMP_DIR" default:"/tmp"`
	Verbose   bool   `envconfig:"VERBOSE"`

	CtrlInterface   string        `envconfig:"CTRL_INTERFACE" default:"/var/run/wpa_supplicant"`
	ScanSettle      time.Duration `envconfig:"SCAN_SETTLE" default:"3s"`
	AssociateSettle time.Duration `envconfig:"ASSOCIATE_SETTLE" default:"5s"`
	LinkSettle      time.Duration `envconfig:"LINK_SETTLE" default:"1s"`
	CommandTimeout  time.Duration `envconfig:"COMMAND_TIMEOUT" default:"60s"`

	HotspotAddress string `envconfig:"HOTSPOT_ADDRESS" default:"192.168.4.1"`
	HotspotPrefix  int    `envconfig:"HOTSPOT_PREFIX" default:"24"`
	HotspotChannel int    `envconfig:"HOTSPOT_CHANNEL" default:"6"`
	HotspotHWMode  string `envconfig:"HOTSPOT_HW_MODE" default:"g"`
	CountryCode    string `envconfig:"COUNTRY_CODE"`
	DHCPRangeStart string `envconfig:"DHCP_RANGE_START" default:"192.168.4.2"`
	DHCPRangeEnd   string `envconfig:"DHCP_RANGE_END" default:"192.168.4.20"`
	DHCPLease      string `envconfig:"DHCP_LEASE" default:"12h"`
	NATTable       string `envconfig:"NAT_TABLE" default:"wifimgr_hotspot"`

	WPASupplicantBin string `envconfig:"WPA_SUPPLICANT_BIN" default:"wpa_supplicant"`
	DHCPClientBin    string `envconfig:"DHCP_CLIENT_BIN" default:"dhclient"`
	HostapdBin       string `envconfig:"HOSTAPD_BIN" default:"hostapd"`
	DnsmasqBin       string `envconfig:"DNSMASQ_BIN" default:"dnsmasq"`
}

func LoadConfig() (Config, error) {
	var c Config
	err := envconfig.Process("wifimgr", &c)
	return c, err
}
