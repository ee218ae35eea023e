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

package debugger

import (
	"fmt"
	"io"
	"os"

	"github.com/lassandro/golmsm/pkg/machine"
)

// RequestReset resets the machine and restores image once the instruction in
// flight has finished. Watch handlers run in the middle of an instruction, so
// resetting there directly would let the rest of it run against the new state.
func (dbg *Debugger) RequestReset(image [machine.MEMORY_SIZE]int) {
	dbg.pending = &image
}

// CancelReset drops a reset requested with RequestReset and reports whether
// one was pending.
func (dbg *Debugger) CancelReset() bool {
	pending := dbg.pending != nil
	dbg.pending = nil
	return pending
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.pending != nil {
		mc.Reset()
		mc.State.Memory = *dbg.pending
		dbg.pending = nil
	}

	if mc.State.Status == machine.STATUS_HALTED || dbg.HandleBreak == nil {
		return
	}

	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr int, mc *machine.Machine) {
	if dbg.HandleRead == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr int, mc *machine.Machine) {
	if dbg.HandleWrite == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// AddBreakpoint returns false if a breakpoint already exists at addr.
func (dbg *Debugger) AddBreakpoint(addr int) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})
	return true
}

// AddWatchpoint returns false if an identical watchpoint already exists.
func (dbg *Debugger) AddWatchpoint(addr int, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{addr, wtype})
	return true
}

func (dbg *Debugger) out() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count int) {
	w := dbg.out()

	for i := addr; i < addr+count && i <= machine.TOP_OF_MEMORY; i++ {
		if i < 0 {
			continue
		}

		if i == addr {
			fmt.Fprintf(w, "\033[1m[%02d]\033[0m ", i)
		} else if (i-addr)%10 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%02d]\033[0m ", i)
		}

		result := mc.Memory[i]

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%04d\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%04d ", result)
		}
	}

	fmt.Fprintln(w)
}

// PrintStack lists the operand stack from the top down, then the return
// addresses from the most recent call down.
func (dbg *Debugger) PrintStack(mc *machine.MachineState) {
	w := dbg.out()

	fmt.Fprintf(w, "\033[1mSTACK:\033[0m (%d)", mc.Depth())
	for i := mc.StackPointer; i < machine.STACK_SIZE; i++ {
		fmt.Fprintf(w, " %d", mc.Stack[i])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1mRETURN:\033[0m (%d)", mc.ReturnDepth())
	for i := mc.ReturnAddressPointer; i >= 0; i-- {
		fmt.Fprintf(w, " %02d", mc.Stack[i])
	}
	fmt.Fprintln(w)
}

func Disassemble(instruction int) string {
	op, operand, ok := machine.Decode(instruction)

	if !ok {
		return fmt.Sprintf("DAT %d", instruction)
	}

	if op.HasOperand() {
		return fmt.Sprintf("%s %d", op, operand)
	}

	return op.String()
}

func (dbg *Debugger) PrintDisasm(mc *machine.MachineState, addr, count int) {
	w := dbg.out()

	for i := addr; i < addr+count && i <= machine.TOP_OF_MEMORY; i++ {
		if i < 0 {
			continue
		}

		marker := "  "
		if i == mc.Program {
			marker = "=>"
		}

		fmt.Fprintf(
			w, "%s \033[1m[%02d]\033[0m %04d  %s\n",
			marker, i, mc.Memory[i], Disassemble(mc.Memory[i]),
		)
	}
}
