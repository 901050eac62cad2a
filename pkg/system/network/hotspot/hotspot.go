package network_hotspot

// Interfaces is the link, address, route and sysctl control the hotspot
// needs.
type Interfaces interface {
	Up(name string) error
	Down(name string) error
	FlushIPv4(name string) error
	AddIPv4(name, cidr string) error
	DefaultRouteInterface() (string, error)
	SetIPv4Forwarding(enable bool) error
}

type Processes interface {
	Start(name string, args ...string) error
	Terminate(name string) error
	IsRunning(name string) bool
	LookPath(name string) (string, error)
}

// NAT shares an uplink with the AP interface.
type NAT interface {
	Install(ap, wan string) error
	Remove() error
}

// Station is the client-mode session the hotspot has to evict first.
type Station interface {
	Disconnect() bool
}

// APCapability reports whether the radio can run as an access point.
type APCapability interface {
	SupportsAP() (bool, error)
}

// undo collects release steps while resources are acquired and runs
// them newest first.
type undo []func()

func (u *undo) push(fn func()) {
	*u = append(*u, fn)
}

func (u undo) run() {
	for i := len(u) - 1; i >= 0; i-- {
		u[i]()
	}
}
