/* ippd - a library for building IPP printer servers
 *
 * Reference server binary
 */

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/openprint-go/ippd/internal/ipplog"
	"github.com/openprint-go/ippd/internal/ippconf"
	"github.com/openprint-go/ippd/ipp"
	"github.com/openprint-go/ippd/job"
	"github.com/openprint-go/ippd/ippserver"
	"github.com/openprint-go/ippd/simple"
)

const usageText = `Usage:
    %s [options]

Options are:
    -conf path   - path to an ippd.conf configuration file
    -debug       - force debug-level logging, overriding configuration
`

func usage() {
	fmt.Fprintf(os.Stderr, usageText, os.Args[0])
}

func main() {
	confPath := flag.String("conf", "/etc/ippd/ippd.conf", "path to configuration file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	conf, err := ippconf.Load(*confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ippd: %s\n", err)
		os.Exit(1)
	}

	if *debug {
		conf.LogLevel = "debug"
	}
	ipplog.SetLevel(conf.LogLevel)
	log := ipplog.For("main")

	printer := ipp.NewPrinterInfo(conf.PrinterURI, conf.PrinterName).
		WithUUID(uuid.New().String()).
		WithLocation(conf.PrinterLocation).
		WithInfo(conf.PrinterInfo).
		WithMakeAndModel(conf.PrinterMakeAndModel).
		WithDocumentFormats("application/pdf", []string{
			"application/pdf",
			"application/octet-stream",
			"image/pwg-raster",
		})

	registry := job.NewRegistry(conf.JobRetention)
	svc := simple.New(printer, registry)

	handler := &ippserver.Handler{
		Service:            svc,
		EnvelopeCap:         conf.EnvelopeCap,
		MaxCollectionDepth:  conf.MaxCollectionDepth,
	}

	server := &http.Server{
		Addr:         conf.Listen,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.WithField("addr", conf.Listen).
		WithField("printer-uri", conf.PrinterURI).
		Info("starting ippd")

	if err := server.ListenAndServe(); err != nil {
		log.WithError(err).Error("server exited")
		os.Exit(1)
	}
}
