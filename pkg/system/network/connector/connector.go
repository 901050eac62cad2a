package network_connector

import (
	wifimgr "github.com/dogeorg/wifimgr/pkg"
)

// Interfaces is the link and address control the connector needs.
type Interfaces interface {
	Up(name string) error
	Down(name string) error
	IsUp(name string) bool
	HasIPv4(name string) bool
}

// Processes starts, probes and stops helper binaries by name.
type Processes interface {
	Start(name string, args ...string) error
	Run(name string, args ...string) ([]byte, error)
	Terminate(name string) error
	IsRunning(name string) bool
}

func NewNetworkConnector(ifname string, config wifimgr.Config, ifaces Interfaces, procs Processes, log wifimgr.Logger) *WPASupplicantConnector {
	return &WPASupplicantConnector{
		ifname: ifname,
		config: config,
		ifaces: ifaces,
		procs:  procs,
		log:    log,
	}
}
