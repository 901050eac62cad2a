//go:build linux

package network_process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
	"github.com/shirou/gopsutil/v4/process"
)

const (
	TerminatePolls    = 10
	TerminateInterval = 200 * time.Millisecond
)

// Proc is the part of a gopsutil process the supervisor touches.
type Proc interface {
	Name() (string, error)
	Exe() (string, error)
	SendSignal(sig syscall.Signal) error
	IsRunning() (bool, error)
}

type lister func() ([]Proc, error)

/* Supervisor
 *
 * Supervisor finds helper daemons by executable name in the
 * process table and runs one-shot helpers to completion.
 * Daemons are launched through their own backgrounding flag
 * (hostapd -B, wpa_supplicant -B, dnsmasq's default fork), so
 * the launcher's exit status is the launch outcome and nothing
 * is left for us to reap.
 */

type Supervisor struct {
	list     lister
	polls    int
	interval time.Duration
	timeout  time.Duration
	log      wifimgr.Logger
}

func NewSupervisor(config wifimgr.Config, log wifimgr.Logger) *Supervisor {
	return &Supervisor{
		list:     listProcesses,
		polls:    TerminatePolls,
		interval: TerminateInterval,
		timeout:  config.CommandTimeout,
		log:      log,
	}
}

func listProcesses() ([]Proc, error) {
	ps, err := process.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]Proc, 0, len(ps))
	for _, p := range ps {
		out = append(out, p)
	}
	return out, nil
}

func matches(p Proc, name string) bool {
	if n, err := p.Name(); err == nil && n == name {
		return true
	}
	// comm is truncated to 15 bytes, fall back to the executable path.
	if exe, err := p.Exe(); err == nil && filepath.Base(exe) == name {
		return true
	}
	return false
}

func (t *Supervisor) find(name string) ([]Proc, error) {
	ps, err := t.list()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	var found []Proc
	for _, p := range ps {
		if matches(p, name) {
			found = append(found, p)
		}
	}
	return found, nil
}

// IsRunning is a single pass over the process table.
func (t *Supervisor) IsRunning(name string) bool {
	ps, err := t.find(name)
	if err != nil {
		t.log.Warnf("Could not probe for %s: %v", name, err)
		return false
	}
	return len(ps) > 0
}

// Terminate sends SIGTERM to every process called name, waits for them
// to go away and SIGKILLs whatever is left. Nothing running is success.
func (t *Supervisor) Terminate(name string) error {
	ps, err := t.find(name)
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		return nil
	}

	t.log.Debugf("Sending SIGTERM to %d %s process(es)", len(ps), name)
	for _, p := range ps {
		_ = p.SendSignal(syscall.SIGTERM)
	}

	for i := 0; i < t.polls; i++ {
		ps = alive(ps)
		if len(ps) == 0 {
			return nil
		}
		time.Sleep(t.interval)
	}

	ps = alive(ps)
	if len(ps) == 0 {
		return nil
	}

	t.log.Warnf("%s ignored SIGTERM, sending SIGKILL", name)
	for _, p := range ps {
		if err := p.SendSignal(syscall.SIGKILL); err != nil && !isGone(err) {
			return fmt.Errorf("failed to kill %s: %w", name, err)
		}
	}
	return nil
}

func alive(ps []Proc) []Proc {
	var out []Proc
	for _, p := range ps {
		if ok, err := p.IsRunning(); err == nil && ok {
			out = append(out, p)
		}
	}
	return out
}

func isGone(err error) bool {
	return errors.Is(err, syscall.ESRCH)
}

// Run executes a one-shot helper and waits for it, bounded by the
// configured command timeout. Combined output is returned either way.
func (t *Supervisor) Run(name string, args ...string) ([]byte, error) {
	ctx := context.Background()
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	t.log.Debugf("Running %s %s", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	// a daemon that forgets to close inherited stdio must not hang us
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// Start launches a self-daemonising helper. The launcher exits once the
// daemon has forked, so its status tells whether the daemon came up.
func (t *Supervisor) Start(name string, args ...string) error {
	if _, err := t.Run(name, args...); err != nil {
		return err
	}
	t.log.Infof("Started %s", name)
	return nil
}

func (t *Supervisor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
