package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup configures the process-wide logger: parsed level, full timestamps,
// and output duplicated to the log file when one is configured.
func Setup(level, file string) {
	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "2006-01-02T15:04:05.999Z07:00"
	formatter.FullTimestamp = true
	log.SetFormatter(formatter)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
		log.WithError(err).Warn("cannot parse log level, using info")
	}
	log.SetLevel(lvl)

	if file == "" {
		return
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.WithError(err).WithField("file", file).Warn("cannot open log file, logging to stderr only")
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}
