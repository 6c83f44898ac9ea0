// Package log provides the ambient logger for the extraction core,
// mirroring the way the teacher pipeline wires up logrus.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var debug bool

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv("PSXDMH_DEBUG"))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance at the level selected by
// PSXDMH_DEBUG.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
