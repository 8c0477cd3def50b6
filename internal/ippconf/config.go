/* ippd - a library for building IPP printer servers
 *
 * Server configuration, loaded from an INI file
 */

package ippconf

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds everything the reference binary needs to start a
// server: where to listen, the identity and capabilities to advertise
// for Get-Printer-Attributes, and the transport-level bounds this
// library enforces.
type Config struct {
	Listen string // Address to bind the HTTP listener to

	PrinterURI          string
	PrinterName         string
	PrinterLocation     string
	PrinterInfo         string
	PrinterMakeAndModel string

	EnvelopeCap        int64
	MaxCollectionDepth int
	JobRetention       time.Duration

	LogLevel string
}

// Default returns the configuration a freshly installed server starts
// with, before any file on disk is consulted.
func Default() Config {
	return Config{
		Listen:              ":631",
		PrinterURI:          "ipp://localhost:631/ipp/print",
		PrinterName:         "ippd",
		PrinterMakeAndModel: "ippd virtual printer",
		EnvelopeCap:         1 << 20,
		MaxCollectionDepth:  32,
		JobRetention:        5 * time.Minute,
		LogLevel:            "info",
	}
}

// Load reads path, overriding any field present in its [server] or
// [printer] sections on top of Default(). A missing file is not an
// error — it just means every default stands.
func Load(path string) (Config, error) {
	conf := Default()

	file, err := ini.LooseLoad(path)
	if err != nil {
		return conf, fmt.Errorf("ippconf: %s", err)
	}

	if section := file.Section("server"); section != nil {
		conf.Listen = stringOr(section, "listen", conf.Listen)
		conf.LogLevel = stringOr(section, "log-level", conf.LogLevel)
		conf.EnvelopeCap = int64Or(section, "envelope-cap-bytes", conf.EnvelopeCap)
		conf.MaxCollectionDepth = intOr(section, "max-collection-depth", conf.MaxCollectionDepth)

		if key, err := section.GetKey("job-retention-seconds"); err == nil {
			if secs, err := key.Int(); err == nil {
				conf.JobRetention = time.Duration(secs) * time.Second
			}
		}
	}

	if section := file.Section("printer"); section != nil {
		conf.PrinterURI = stringOr(section, "uri", conf.PrinterURI)
		conf.PrinterName = stringOr(section, "name", conf.PrinterName)
		conf.PrinterLocation = stringOr(section, "location", conf.PrinterLocation)
		conf.PrinterInfo = stringOr(section, "info", conf.PrinterInfo)
		conf.PrinterMakeAndModel = stringOr(section, "make-and-model", conf.PrinterMakeAndModel)
	}

	return conf, nil
}

func stringOr(section *ini.Section, name, fallback string) string {
	if key, err := section.GetKey(name); err == nil && key.String() != "" {
		return key.String()
	}
	return fallback
}

func intOr(section *ini.Section, name string, fallback int) int {
	if key, err := section.GetKey(name); err == nil {
		if v, err := key.Int(); err == nil {
			return v
		}
	}
	return fallback
}

func int64Or(section *ini.Section, name string, fallback int64) int64 {
	if key, err := section.GetKey(name); err == nil {
		if v, err := key.Int64(); err == nil {
			return v
		}
	}
	return fallback
}
