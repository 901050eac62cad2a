//go:build !linux

package network

import (
	wifimgr "github.com/dogeorg/wifimgr/pkg"
	"github.com/sirupsen/logrus"
)

func NewBackend(config wifimgr.Config, log logrus.FieldLogger) (wifimgr.Backend, error) {
	return nil, ErrUnsupportedPlatform
}
