//go:build linux

package network_iface

import (
	"os"
	"strings"
)

type RealSystemController struct{}

// WriteSysctl accepts either an absolute path or dotted sysctl notation
// such as net.ipv4.ip_forward.
func (r *RealSystemController) WriteSysctl(path, value string) error {
	if !strings.HasPrefix(path, "/") {
		path = "/proc/sys/" + strings.ReplaceAll(path, ".", "/")
	}
	return os.WriteFile(path, []byte(value), 0644)
}
