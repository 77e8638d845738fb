package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var debug bool

func init() {
	var err error

	debug, err = strconv.ParseBool(os.Getenv("RINGFX_DEBUG"))
	if err != nil {
		debug = false
	}
}

// newLogger returns a text logger writing to w. RINGFX_DEBUG overrides level.
func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l, nil
}
