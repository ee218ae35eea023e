// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lassandro/golmsm/pkg/config"
	"github.com/lassandro/golmsm/pkg/debugger"
	"github.com/lassandro/golmsm/pkg/encoding"
	"github.com/lassandro/golmsm/pkg/machine"
)

var helpvar bool
var debugvar bool
var tracevar bool
var configvar string
var maxstepsvar uint64
var outvar string

var shouldexit bool
var stdin = bufio.NewReader(os.Stdin)

var log zerolog.Logger

const usage = "golmsm [-debug] [-trace] [-config file] [-max-steps n] [-out file] filename"

func init() {
	exe, _ := os.Executable()
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !isTerminal(int(os.Stderr.Fd()))}).
		With().
		Str("exe", filepath.Base(exe)).
		Logger()
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(&tracevar, "trace", false, "Logs every executed instruction")
	flag.StringVar(&configvar, "config", "", "Path to a golmsm.toml file")
	flag.Uint64Var(
		&maxstepsvar, "max-steps", 0,
		"Stops the machine after this many instructions, overriding the "+
			"configuration file (0 keeps the configured value)",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Writes the decimal listing as a binary image to this file "+
			"instead of running it",
	)
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if configvar != "" {
		var err error
		if cfg, err = config.Load(configvar); err != nil {
			return cfg, err
		}
	}

	if debugvar {
		cfg.Debug = true
	}

	if maxstepsvar > 0 {
		cfg.MaxSteps = maxstepsvar
	}

	if tracevar {
		cfg.LogLevel = zerolog.LevelTraceValue
	}

	return cfg, nil
}

func loadProgram(mc *machine.Machine, file *os.File) error {
	if filepath.Ext(file.Name()) == ".bin" {
		return mc.LoadBin(file)
	}

	return mc.LoadText(file)
}

func writeImage(file *os.File) error {
	program, err := encoding.DecodeProgram(file)

	if err != nil {
		return err
	}

	out, err := os.Create(outvar)

	if err != nil {
		return errors.Wrap(err, "Error writing output file")
	}

	defer out.Close()

	writer := bufio.NewWriter(out)

	if err := encoding.EncodeBin(writer, program); err != nil {
		return errors.Wrap(err, "Error writing output file")
	}

	return writer.Flush()
}

func golmsm() int {
	flag.Parse()

	if helpvar {
		fmt.Println(usage)
		fmt.Println(interruptHelp)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Error().Msg(usage)
		return 1
	}

	cfg, err := loadConfig()

	if err != nil {
		log.Error().Err(err).Msg("Error loading configuration")
		return 1
	}

	level, err := cfg.Level()

	if err != nil {
		log.Error().Err(err).Msg("Invalid log level")
		return 1
	}

	zerolog.SetGlobalLevel(level)
	log = log.Level(level)

	file, err := os.Open(args[0])

	if err != nil {
		log.Error().Err(err).Send()
		return 1
	}

	defer file.Close()

	if outvar != "" {
		if err := writeImage(file); err != nil {
			log.Error().Err(err).Str("file", args[0]).Send()
			return 1
		}

		return 0
	}

	mc := machine.New()
	mc.Logger = &log
	mc.MaxSteps = cfg.MaxSteps

	if err := loadProgram(mc, file); err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("Error loading program")
		return 1
	}

	var dh machine.DeviceHandler
	dh.Keyboard = stdin
	dh.Display = bufio.NewWriter(os.Stdout)

	if isTerminal(int(os.Stdin.Fd())) {
		dh.Prompt = cfg.Prompt
	}

	mc.Devices = &dh

	defer func() {
		if err := mc.Close(); err != nil {
			log.Error().Err(err).Send()
		}
	}()

	var dbg *debugger.Debugger

	if cfg.Debug {
		dbg = &debugger.Debugger{
			HandleBreak: handleBreak,
			HandleRead:  handleRead,
			HandleWrite: handleWrite,
		}
		mc.Debugger = dbg
		image = mc.State.Memory

		if !debugREPL(dbg, mc) {
			return 0
		}
	}

	for !shouldexit {
		ctx, stop := interruptContext()
		err = mc.Run(ctx)
		stop()

		if errors.Cause(err) == context.Canceled {
			fmt.Println()

			if dbg == nil {
				log.Warn().Int("pc", mc.State.Program).Msg("Interrupted")
				return 130
			}

			fmt.Println("Program stopped")
			dbg.PrintDisasm(&mc.State, mc.State.Program, 1)

			if !debugREPL(dbg, mc) {
				return 0
			}

			continue
		}

		break
	}

	if err == machine.ErrStepLimit {
		log.Error().Uint64("steps", cfg.MaxSteps).Msg("Step limit exceeded")
		return 1
	} else if err != nil {
		log.Error().Err(err).Msg("Machine halted")
		return 2
	}

	log.Debug().
		Int("acc", mc.State.Accumulator).
		Str("output", mc.State.Output).
		Msg("Machine halted")

	return 0
}

func main() {
	os.Exit(golmsm())
}
