package main

/*------------------------------------------------------------------
 *
 * Purpose:	Main program for libreorama, a LOR (Light-O-Rama) show
 *		player: reads a show file listing .lms sequences, drives
 *		a serial controller chain over a standard COM-style
 *		protocol, synced to audio playback.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	libreorama "github.com/nkrecklow/libreorama/src"
)

func main() {
	var baud = pflag.IntP("baud", "b", 19200, "Serial baud rate for the controller chain.")
	var showFile = pflag.StringP("show-file", "f", "show.txt", "Path to the show file (one sequence path per line).")
	var correction = pflag.Uint16P("correction", "c", 0, "Time correction in milliseconds; every sequence starts at tick correction/step_time_ms.")
	var loopStr = pflag.StringP("loop", "l", "1", "Number of times to play through the show, or 'infinite'.")
	var debug = pflag.BoolP("debug", "d", false, "Enable debug-level logging.")
	var configFile = pflag.StringP("config", "", "", "Path to an optional controllers.yaml profile.")
	var listDevices = pflag.Bool("list-devices", false, "List candidate serial devices and exit.")
	var startGPIO = pflag.String("start-gpio", "", "Block until gpio line <chip>:<line> goes active before starting the show.")
	var runLogPattern = pflag.String("run-log", libreorama.DefaultRunLogPattern, "strftime pattern for the per-run CSV log.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	var serialPortName string

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "libreorama - a LOR show player.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: libreorama [options] <serial port name>\n\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	if *listDevices {
		if err := libreorama.ListSerialDevices(os.Stdout); err != nil {
			logger.Error("listing serial devices", "err", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if len(pflag.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "missing required <serial port name> argument")
		pflag.Usage()
		os.Exit(1)
	}
	serialPortName = pflag.Arg(0)

	cfg, err := libreorama.LoadConfig(*configFile)
	if err != nil {
		logger.Error("loading controller profile", "err", err)
		os.Exit(1)
	}

	loopCount, err := parseLoopCount(*loopStr)
	if err != nil {
		logger.Error("parsing --loop", "err", err)
		os.Exit(1)
	}

	if *startGPIO != "" {
		logger.Info("awaiting gpio start trigger", "spec", *startGPIO)
		if err := libreorama.AwaitGPIOStart(*startGPIO); err != nil {
			logger.Error("gpio start trigger", "err", err)
			os.Exit(1)
		}
	}

	transport, err := libreorama.OpenSerialTransport(serialPortName, *baud)
	if err != nil {
		logger.Error("opening serial transport", "err", err)
		os.Exit(1)
	}
	defer transport.Close()

	audio := libreorama.NewPortAudioSource()

	pb := &libreorama.Playback{
		Logger:    logger,
		Audio:     audio,
		Transport: transport,
		Config:    cfg,
	}

	player, err := libreorama.NewPlayer(pb, *showFile, loopCount)
	if err != nil {
		logger.Error("initializing player", "err", err)
		os.Exit(1)
	}

	runLog, err := libreorama.OpenRunLog(*runLogPattern, time.Now())
	if err != nil {
		logger.Error("opening run log", "err", err)
		os.Exit(1)
	}
	defer runLog.Close()

	for player.HasNext() {
		started := time.Now()
		if err := player.Start(*correction); err != nil {
			logger.Error("playing sequence", "err", err)
			os.Exit(1)
		}
		stopped := time.Now()
		logger.Info("sequence finished", "elapsed", stopped.Sub(started))

		run := player.LastRun
		if err := runLog.WriteEntry(run.SequenceFile, run.AudioFile, run.StepTimeMs, run.FrameCount, run.ChannelCount, started, stopped); err != nil {
			logger.Error("writing run log entry", "err", err)
		}
	}

	player.Close()
}

// parseLoopCount accepts a decimal pass count or the literal "infinite".
func parseLoopCount(s string) (libreorama.LoopCount, error) {
	if s == "infinite" {
		return libreorama.InfiniteLoop(), nil
	}

	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return libreorama.LoopCount{}, err
	}

	return libreorama.FiniteLoop(uint32(n)), nil
}
