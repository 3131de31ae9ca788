package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logs from packages under test are only written for verbose test runs
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args[1:] {
		if arg == "-test.v" || arg == "-test.v=true" {
			return
		}
	}
	logrus.SetOutput(io.Discard)
}
