package cmd

import (
	"fmt"
	"os"
	"syscall"

	wifimgr "github.com/dogeorg/wifimgr/pkg"
	"github.com/dogeorg/wifimgr/pkg/system/network"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wifictl",
	Short: "wifictl scans, joins and hosts WiFi networks",
	Long: `wifictl drives a WiFi interface directly: nl80211 for scanning,
wpa_supplicant and dhclient for joining networks, and hostapd plus
dnsmasq for running a hotspot. Most commands must run as root.`,
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("interface", "i", "", "wifi interface to use (default: first station interface)")
	rootCmd.PersistentFlags().StringP("tmp-dir", "t", "", "directory for generated daemon configs")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Be verbose")
}

// loadConfig reads WIFIMGR_* from the environment and applies any
// flags the user set explicitly on top.
func loadConfig(cmd *cobra.Command) (wifimgr.Config, error) {
	config, err := wifimgr.LoadConfig()
	if err != nil {
		return config, fmt.Errorf("invalid environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("interface") {
		config.Interface, _ = flags.GetString("interface")
	}
	if flags.Changed("tmp-dir") {
		config.TmpDir, _ = flags.GetString("tmp-dir")
	}
	if flags.Changed("verbose") {
		config.Verbose, _ = flags.GetBool("verbose")
	}
	return config, nil
}

func newLogger(config wifimgr.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// withManager builds the platform backend for the duration of one
// command and exits non-zero if it cannot be built.
func withManager(fn func(m *wifimgr.WifiManager, logger *logrus.Logger) bool) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if syscall.Geteuid() != 0 {
			fmt.Fprintln(os.Stderr, "This command must be run as root.")
			os.Exit(1)
		}

		config, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger := newLogger(config)

		backend, err := network.NewBackend(config, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to initialise wifi backend")
			os.Exit(1)
		}

		m, err := wifimgr.NewWifiManager(backend, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to initialise wifi manager")
			os.Exit(1)
		}

		ok := fn(m, logger)
		if err := m.Close(); err != nil {
			logger.WithError(err).Warn("Failed to release wifi backend")
		}
		if !ok {
			os.Exit(1)
		}
	}
}
