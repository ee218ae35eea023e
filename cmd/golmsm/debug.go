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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lassandro/golmsm/pkg/debugger"
	"github.com/lassandro/golmsm/pkg/encoding"
	"github.com/lassandro/golmsm/pkg/machine"
)

var lastcmd []string

// Memory as loaded, restored by the reset command.
var image [machine.MEMORY_SIZE]int

// Set while a watchpoint handler has the prompt.
var inWatch bool

func decodeAddr(s string) (int, bool) {
	addr, err := encoding.DecodeAddr(s)

	if err != nil {
		fmt.Println(err)
		return 0, false
	}

	if addr < 0 || addr > machine.TOP_OF_MEMORY {
		fmt.Printf("Address %d is outside memory\n", addr)
		return 0, false
	}

	return addr, true
}

func indexFormat(count int, suffix string) string {
	digits := math.Floor(math.Log10(float64(count + 1)))
	return fmt.Sprintf("#%%0%dd: %s\n", int64(digits)+1, suffix)
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [addr]"

		if len(args) != 1 {
			fmt.Println(usage)
			return
		}

		if addr, ok := decodeAddr(args[0]); ok && dbg.AddBreakpoint(addr) {
			fmt.Printf("Breakpoint added [%02d]\n", addr)
		}

	case "l", "ls", "list":
		fmtstring := indexFormat(len(dbg.Breakpoints), "%02d")

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			fmt.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			fmt.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			fmt.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		fmt.Println("Breakpoints reset")

	default:
		fmt.Printf("break: '%s' is not a valid command\n%s\n", cmd, usage)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		fmt.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [addr] [read|write|readwrite]"

		if len(args) != 2 {
			fmt.Println(usage)
			return
		}

		addr, ok := decodeAddr(args[0])

		if !ok {
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "rwrite", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			fmt.Println(usage)
			return
		}

		if dbg.AddWatchpoint(addr, wtype) {
			fmt.Printf("Watchpoint added [%02d] (%s)\n", addr, wtype)
		}

	case "l", "ls", "list":
		fmtstring := indexFormat(len(dbg.Watchpoints), "%02d %s")

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchpoint.Type)
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			fmt.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			fmt.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			fmt.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		fmt.Println("Watchpoints reset")

	default:
		fmt.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func debugReg(mc *machine.MachineState, args []string) {
	const usage = "register [ACC|PC] [value]"

	if len(args) > 0 {
		if len(args) != 2 {
			fmt.Println(usage)
			return
		}

		value, err := encoding.DecodeInt(args[1])

		if err != nil {
			fmt.Println(err)
			return
		}

		args[0] = strings.ToUpper(args[0])

		switch args[0] {
		case "ACC", "A":
			mc.Accumulator = machine.Cap(value)
		case "PC":
			mc.Program = value
		default:
			fmt.Println("Invalid register")
			return
		}

		fmt.Printf("\033[1m%s:\033[0m %d\n", args[0], value)
		return
	}

	fmt.Printf(
		"\033[1mACC:\033[0m %d\t\033[1mPC:\033[0m %02d\t\033[1mIR:\033[0m %d\n",
		mc.Accumulator,
		mc.Program,
		mc.Instruction,
	)
	fmt.Printf(
		"\033[1mSP:\033[0m %d\t\033[1mRP:\033[0m %d\t\033[1mOUT:\033[0m %q\n",
		mc.StackPointer,
		mc.ReturnAddressPointer,
		mc.Output,
	)
	fmt.Printf(
		"\033[1mSTATUS:\033[0m %s\t\033[1mERROR:\033[0m %s\n",
		mc.Status,
		mc.Error.Error(),
	)
}

// Parses the optional [addr] [count] arguments shared by memory and disasm.
func debugRange(mc *machine.MachineState, args []string, size int) (int, int, bool) {
	addr := mc.Program

	if len(args) > 2 {
		return 0, 0, false
	}

	if len(args) > 0 {
		var ok bool
		if addr, ok = decodeAddr(args[0]); !ok {
			return 0, 0, false
		}
	}

	if len(args) > 1 {
		value, err := strconv.ParseInt(args[1], 10, 16)

		if err != nil {
			fmt.Println(err)
			return 0, 0, false
		}

		size = int(value)
	}

	return addr, size, true
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memory [addr] [#]"

	if addr, size, ok := debugRange(mc, args, 10); ok {
		dbg.PrintMem(mc, addr, size)
	} else {
		fmt.Println(usage)
	}
}

func debugDisasm(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "disasm [addr] [#]"

	if addr, size, ok := debugRange(mc, args, 8); ok {
		dbg.PrintDisasm(mc, addr, size)
	} else {
		fmt.Println(usage)
	}
}

func debugJump(mc *machine.MachineState, args []string) {
	const usage = "jump [addr]"

	if len(args) != 1 {
		fmt.Println(usage)
		return
	}

	if addr, ok := decodeAddr(args[0]); ok {
		mc.Program = addr
		fmt.Printf("\033[1mPC:\033[0m %02d\n", addr)
	}
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "set [addr] [value]"

	if len(args) != 2 {
		fmt.Println(usage)
		return
	}

	addr, ok := decodeAddr(args[0])

	if !ok {
		return
	}

	value, err := encoding.DecodeInt(args[1])

	if err != nil {
		fmt.Println(err)
		return
	}

	mc.Memory[addr] = value
	dbg.PrintMem(mc, addr, 1)
}

// debugREPL returns false when the user asked to quit.
func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) bool {
	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		line, err := stdin.ReadString('\n')

		if err != nil && len(line) == 0 {
			fmt.Println()
			return false
		}

		args := strings.Fields(line)

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(&mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "d", "dis", "disasm":
			debugDisasm(dbg, &mc.State, args)

		case "st", "stack":
			dbg.PrintStack(&mc.State)

		case "j", "jmp", "jump":
			debugJump(&mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "c", "continue":
			dbg.Break = false
			return true

		case "n", "next":
			dbg.Break = true
			return true

		case "q", "quit", "exit":
			return false

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			if inWatch {
				dbg.RequestReset(image)
				fmt.Println("Machine resets when the current instruction finishes")
				break
			}

			mc.Reset()
			mc.State.Memory = image
			fmt.Println("Machine reset")

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func stopAndPrompt(dbg *debugger.Debugger, mc *machine.Machine) {
	if !debugREPL(dbg, mc) {
		dbg.CancelReset()
		shouldexit = true
		mc.State.Status = machine.STATUS_HALTED
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
	}
	dbg.PrintDisasm(&mc.State, mc.State.Program, 1)
	stopAndPrompt(dbg, mc)
}

func handleRead(addr int, dbg *debugger.Debugger, mc *machine.Machine) {
	inWatch = true
	defer func() { inWatch = false }()

	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	stopAndPrompt(dbg, mc)
}

func handleWrite(addr int, dbg *debugger.Debugger, mc *machine.Machine) {
	inWatch = true
	defer func() { inWatch = false }()

	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	stopAndPrompt(dbg, mc)
}
