/*
 * PCE - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"
	"github.com/tebeka/atexit"

	command "github.com/rcornwell/pce/command/command"
	reader "github.com/rcornwell/pce/command/reader"
	config "github.com/rcornwell/pce/config/configparser"
	clock "github.com/rcornwell/pce/emu/clock"
	core "github.com/rcornwell/pce/emu/core"
	telnet "github.com/rcornwell/pce/telnet"
	debug "github.com/rcornwell/pce/util/debug"
	logger "github.com/rcornwell/pce/util/logger"

	_ "github.com/rcornwell/pce/config/debugconfig"
	_ "github.com/rcornwell/pce/emu/machine/ibmpc"
	_ "github.com/rcornwell/pce/emu/machine/sim405"
	_ "github.com/rcornwell/pce/emu/machine/sim68k"
	_ "github.com/rcornwell/pce/emu/machine/vic20"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "pce.ini", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optSpeed := getopt.StringLong("speed", 's', "", "Speed multiple, 0 runs unthrottled")
	optRun := getopt.BoolLong("run", 'r', "Start running before the monitor")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		fmt.Println("Machines: " + strings.Join(config.Models(), " "))
		os.Exit(0)
	}

	var file io.Writer
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error("Unable to create log file", "error", err)
			os.Exit(1)
		}
		atexit.Register(func() { f.Close() })
		file = f
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger := slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, *optDebug))
	slog.SetDefault(Logger)
	atexit.Register(debug.Close)

	Logger.Info("PCE Started")
	if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
		Logger.Error("Configuration file " + *optConfig + " can't be found")
		atexit.Exit(1)
	}

	m, err := config.LoadConfigFile(*optConfig)
	if err != nil {
		Logger.Error(err.Error())
		atexit.Exit(1)
	}
	if *optSpeed != "" {
		speed, err := parseSpeed(*optSpeed)
		if err != nil {
			Logger.Error(err.Error())
			atexit.Exit(1)
		}
		m.Pacer().SetSpeed(speed)
	}

	// Start telnet servers.
	if err := telnet.Start(); err != nil {
		Logger.Error(err.Error())
		atexit.Exit(1)
	}
	atexit.Register(telnet.Stop)

	// Interrupt stops the machine and returns to the monitor.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		for range interrupt {
			m.Break().Set(clock.Stop)
		}
	}()

	c := core.New(m)
	session := command.NewSession(c, os.Stdout)
	if *optRun {
		session.Printf("%s\n", c.Run())
	}
	reader.ConsoleReader(session)

	Logger.Info("PCE stopped.")
	atexit.Exit(0)
}

// Parse speed multiple given on the command line.
func parseSpeed(text string) (float64, error) {
	speed, err := strconv.ParseFloat(text, 64)
	if err != nil || speed < 0 {
		return 0, errors.New("invalid speed: " + text)
	}
	return speed, nil
}
