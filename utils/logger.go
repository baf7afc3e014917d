package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

// InitLogger configures both loggers. format "json" switches to the JSON formatter.
func InitLogger(format ...string) {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	var formatter logrus.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	if len(format) > 0 && strings.EqualFold(format[0], "json") {
		formatter = &logrus.JSONFormatter{}
	}

	// InfoLogger ke stdout, ErrorLogger ke stderr
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(formatter)

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(formatter)

	InfoLogger.SetLevel(logrus.InfoLevel)
	ErrorLogger.SetLevel(logrus.WarnLevel)
}
