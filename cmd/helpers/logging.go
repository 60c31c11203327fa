package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the standard logrus logger for CLI use.
func SetupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return &UsageError{Err: err}
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	logrus.SetLevel(lvl)
	return nil
}

// Logger returns the logger handed to a tool.
func Logger(tool string) logrus.FieldLogger {
	return logrus.WithField("tool", tool)
}
