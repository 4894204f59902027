// Package logger builds the process logger: logrus JSON lines with ts/level/msg keys,
// timestamps rendered in the configured time zone.
package logger

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger writing to w at level (info when unparsable).
func New(w io.Writer, level string, loc *time.Location) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
		},
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	if loc != nil {
		l.AddHook(&zoneHook{loc: loc})
	}
	return l
}

// Location loads the named zone, falling back to UTC.
func Location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// zoneHook moves entry timestamps into loc before formatting.
type zoneHook struct {
	loc *time.Location
}

func (h *zoneHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *zoneHook) Fire(e *logrus.Entry) error {
	e.Time = e.Time.In(h.loc)
	return nil
}
