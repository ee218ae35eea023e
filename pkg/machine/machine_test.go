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

package machine_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/lassandro/golmsm/pkg/machine"
)

type testMachineState struct {
	Accumulator int
	Program     int
	Halted      bool
	Error       machine.ErrorCode
	Output      string

	// Operand stack, top first
	Stack []int
	// Return addresses, most recent first
	Returns []int

	Memory map[int]int
}

type testCase struct {
	Name     string
	Steps    uint
	Keyboard string
	Display  string
	Prompt   string
	Input    testMachineState
	Output   testMachineState
}

func setupMachine(test *testCase) (*machine.Machine, *bytes.Buffer) {
	mc := machine.New()

	var devices machine.DeviceHandler
	var displayBuf bytes.Buffer

	if len(test.Keyboard) > 0 {
		devices.Keyboard = bufio.NewReader(
			bytes.NewReader([]byte(test.Keyboard)),
		)
	}

	if len(test.Display) > 0 {
		devices.Display = bufio.NewWriter(&displayBuf)
		devices.Prompt = test.Prompt
	}

	if devices.Keyboard != nil || devices.Display != nil {
		mc.Devices = &devices
	}

	mc.State.Accumulator = test.Input.Accumulator
	mc.State.Program = test.Input.Program
	mc.State.Output = test.Input.Output

	for i := len(test.Input.Stack) - 1; i >= 0; i-- {
		mc.State.StackPointer--
		mc.State.Stack[mc.State.StackPointer] = test.Input.Stack[i]
	}

	for i := len(test.Input.Returns) - 1; i >= 0; i-- {
		mc.State.ReturnAddressPointer++
		mc.State.Stack[mc.State.ReturnAddressPointer] = test.Input.Returns[i]
	}

	for addr, value := range test.Input.Memory {
		mc.State.Memory[addr] = value
	}

	return mc, &displayBuf
}

func operandStack(mc *machine.MachineState) []int {
	stack := make([]int, 0, mc.Depth())
	for i := mc.StackPointer; i < machine.STACK_SIZE; i++ {
		stack = append(stack, mc.Stack[i])
	}
	return stack
}

func returnStack(mc *machine.MachineState) []int {
	stack := make([]int, 0, mc.ReturnDepth())
	for i := mc.ReturnAddressPointer; i >= 0; i-- {
		stack = append(stack, mc.Stack[i])
	}
	return stack
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func testMachineSuccess(t *testing.T, test *testCase) {
	if test.Input.Memory == nil && test.Output.Memory == nil {
		panic("No memory maps provided")
	}

	mc, displayBuf := setupMachine(test)

	if test.Steps == 0 {
		test.Steps = 1
	}

	for i := uint(0); i < test.Steps; i++ {
		mc.Step()
	}

	if have := mc.State.Accumulator; have != test.Output.Accumulator {
		t.Errorf(
			"Accumulator mismatch"+
				"\nwant:%d (test.Output.Accumulator)\nhave:%d",
			test.Output.Accumulator,
			have,
		)
	}

	if have := mc.State.Program; have != test.Output.Program {
		t.Errorf(
			"Program counter mismatch"+
				"\nwant:%d (test.Output.Program)\nhave:%d",
			test.Output.Program,
			have,
		)
	}

	if halted := mc.State.Status == machine.STATUS_HALTED; halted != test.Output.Halted {
		t.Errorf(
			"Status mismatch"+
				"\nwant halted:%t (test.Output.Halted)\nhave:%s",
			test.Output.Halted,
			mc.State.Status,
		)
	}

	if have := mc.State.Error; have != test.Output.Error {
		t.Errorf(
			"Error code mismatch"+
				"\nwant:%q (test.Output.Error)\nhave:%q",
			test.Output.Error.Error(),
			have.Error(),
		)
	}

	if have := mc.State.Output; have != test.Output.Output {
		t.Errorf(
			"Output mismatch"+
				"\nwant:%q (test.Output.Output)\nhave:%q",
			test.Output.Output,
			have,
		)
	}

	if have := operandStack(&mc.State); !equalInts(have, test.Output.Stack) {
		t.Errorf(
			"Operand stack mismatch"+
				"\nwant:%v (test.Output.Stack)\nhave:%v",
			test.Output.Stack,
			have,
		)
	}

	if have := returnStack(&mc.State); !equalInts(have, test.Output.Returns) {
		t.Errorf(
			"Return stack mismatch"+
				"\nwant:%v (test.Output.Returns)\nhave:%v",
			test.Output.Returns,
			have,
		)
	}

	for i, value := range mc.State.Memory {
		input, expectingInput := test.Input.Memory[i]
		output, expectingOutput := test.Output.Memory[i]

		if expectingOutput {
			// Value was supposed to change
			if value != output {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%d (test.Output.Memory[%02d])\nhave:%d",
					output,
					i,
					value,
				)
			}
		} else if expectingInput {
			// Value was supposed to remain
			if value != input {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%d (test.Input.Memory[%02d])\nhave:%d",
					input,
					i,
					value,
				)
			}
		} else if value != 0 {
			// Value was expected to remain unitialized
			t.Fatalf(
				"Memory unexpectedly changed"+
					"\nwant:0 (test.Output.Memory[%02d])\nhave:%d",
				i,
				value,
			)
		}
	}

	if len(test.Display) > 0 {
		if have := displayBuf.String(); have != test.Display {
			t.Errorf(
				"Display output mismatch"+
					"\nwant:%q (test.Display)\nhave:%q",
				test.Display,
				have,
			)
		}
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			test := test
			t.Run(test.Name, func(t *testing.T) {
				testMachineSuccess(t, &test)
			})
		}
	})
}

func TestCap(t *testing.T) {
	tests := []struct {
		value int
		want  int
	}{
		{0, 0},
		{999, 999},
		{-999, -999},
		{1000, 999},
		{-1000, -999},
		{998001, 999},
		{-998001, -999},
		{42, 42},
	}

	for _, test := range tests {
		if have := machine.Cap(test.value); have != test.want {
			t.Errorf("Cap(%d)\nwant:%d\nhave:%d", test.value, test.want, have)
		}
	}
}

// HLT  |000|          | Halt
func TestHalt(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "HLT",
			Input: testMachineState{
				Memory: map[int]int{0: 0},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
			},
		},
		{
			Name: "HLT Keeps State",
			Input: testMachineState{
				Accumulator: -12,
				Program:     10,
				Stack:       []int{3, 4},
				Returns:     []int{7},
				Memory:      map[int]int{10: 0},
			},
			Output: testMachineState{
				Accumulator: -12,
				Program:     11,
				Halted:      true,
				Stack:       []int{3, 4},
				Returns:     []int{7},
			},
		},
		{
			Name:  "HLT Further Steps Ignored",
			Steps: 3,
			Input: testMachineState{
				Accumulator: 5,
				Memory:      map[int]int{0: 0, 1: 105, 2: 0},
			},
			Output: testMachineState{
				Accumulator: 5,
				Program:     1,
				Halted:      true,
			},
		},
	})
}

// ADD  |1|address     | Add memory to accumulator
// SUB  |2|address     | Subtract memory from accumulator
func TestAddSub(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "ADD",
			Input: testMachineState{
				Memory: map[int]int{0: 109, 9: 42},
			},
			Output: testMachineState{
				Accumulator: 42,
				Program:     1,
			},
		},
		{
			Name: "ADD Address Zero",
			Input: testMachineState{
				Accumulator: 1,
				Memory:      map[int]int{0: 100},
			},
			Output: testMachineState{
				Accumulator: 101,
				Program:     1,
			},
		},
		{
			Name: "ADD Top Of Memory",
			Input: testMachineState{
				Accumulator: 1,
				Memory:      map[int]int{0: 199, 99: 2},
			},
			Output: testMachineState{
				Accumulator: 3,
				Program:     1,
			},
		},
		{
			Name: "ADD Capped High",
			Input: testMachineState{
				Accumulator: 900,
				Memory:      map[int]int{0: 150, 50: 500},
			},
			Output: testMachineState{
				Accumulator: 999,
				Program:     1,
			},
		},
		{
			Name: "ADD Capped Low",
			Input: testMachineState{
				Accumulator: -900,
				Memory:      map[int]int{0: 150, 50: -500},
			},
			Output: testMachineState{
				Accumulator: -999,
				Program:     1,
			},
		},
		{
			Name: "SUB",
			Input: testMachineState{
				Accumulator: 10,
				Memory:      map[int]int{0: 205, 5: 25},
			},
			Output: testMachineState{
				Accumulator: -15,
				Program:     1,
			},
		},
		{
			Name: "SUB Capped Low",
			Input: testMachineState{
				Accumulator: -500,
				Memory:      map[int]int{0: 205, 5: 999},
			},
			Output: testMachineState{
				Accumulator: -999,
				Program:     1,
			},
		},
		{
			Name: "SUB Capped High",
			Input: testMachineState{
				Accumulator: 500,
				Memory:      map[int]int{0: 205, 5: -999},
			},
			Output: testMachineState{
				Accumulator: 999,
				Program:     1,
			},
		},
	})
}

// STA  |3|address     | Store accumulator
// LDI  |4|literal     | Load immediate
// LDA  |5|address     | Load accumulator
func TestLoadStore(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "STA",
			Input: testMachineState{
				Accumulator: -77,
				Memory:      map[int]int{0: 320},
			},
			Output: testMachineState{
				Accumulator: -77,
				Program:     1,
				Memory:      map[int]int{20: -77},
			},
		},
		{
			Name: "STA Overwrites Program",
			Input: testMachineState{
				Accumulator: 902,
				Memory:      map[int]int{0: 300},
			},
			Output: testMachineState{
				Accumulator: 902,
				Program:     1,
				Memory:      map[int]int{0: 902},
			},
		},
		{
			Name: "LDI",
			Input: testMachineState{
				Accumulator: 500,
				Memory:      map[int]int{0: 442},
			},
			Output: testMachineState{
				Accumulator: 42,
				Program:     1,
			},
		},
		{
			Name: "LDI Zero",
			Input: testMachineState{
				Accumulator: 500,
				Memory:      map[int]int{0: 400},
			},
			Output: testMachineState{
				Program: 1,
			},
		},
		{
			Name: "LDA",
			Input: testMachineState{
				Accumulator: 1,
				Memory:      map[int]int{0: 599, 99: -321},
			},
			Output: testMachineState{
				Accumulator: -321,
				Program:     1,
			},
		},
	})
}

// BRA  |6|address     | Branch
// BRZ  |7|address     | Branch if accumulator is zero
// BRP  |8|address     | Branch if accumulator is positive
func TestBranch(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "BRA",
			Input: testMachineState{
				Memory: map[int]int{0: 642},
			},
			Output: testMachineState{
				Program: 42,
			},
		},
		{
			Name: "BRA Self",
			Input: testMachineState{
				Program: 7,
				Memory:  map[int]int{7: 607},
			},
			Output: testMachineState{
				Program: 7,
			},
		},
		{
			Name: "BRZ Taken",
			Input: testMachineState{
				Memory: map[int]int{0: 730},
			},
			Output: testMachineState{
				Program: 30,
			},
		},
		{
			Name: "BRZ Not Taken",
			Input: testMachineState{
				Accumulator: -1,
				Memory:      map[int]int{0: 730},
			},
			Output: testMachineState{
				Accumulator: -1,
				Program:     1,
			},
		},
		{
			Name: "BRP Taken",
			Input: testMachineState{
				Accumulator: 1,
				Memory:      map[int]int{0: 830},
			},
			Output: testMachineState{
				Accumulator: 1,
				Program:     30,
			},
		},
		{
			Name: "BRP Zero Not Taken",
			Input: testMachineState{
				Memory: map[int]int{0: 830},
			},
			Output: testMachineState{
				Program: 1,
			},
		},
		{
			Name: "BRP Negative Not Taken",
			Input: testMachineState{
				Accumulator: -5,
				Memory:      map[int]int{0: 830},
			},
			Output: testMachineState{
				Accumulator: -5,
				Program:     1,
			},
		},
	})
}

// JAL  |10|address    | Call subroutine
// RET  |911|          | Return from subroutine
func TestCallReturn(t *testing.T) {
	fullStack := make([]int, machine.STACK_SIZE)

	testSuccess(t, []testCase{
		{
			Name: "JAL",
			Input: testMachineState{
				Program: 4,
				Memory:  map[int]int{4: 1050},
			},
			Output: testMachineState{
				Program: 50,
				Returns: []int{5},
			},
		},
		{
			Name: "JAL Nested",
			Input: testMachineState{
				Program: 50,
				Returns: []int{5},
				Memory:  map[int]int{50: 1060},
			},
			Output: testMachineState{
				Program: 60,
				Returns: []int{51, 5},
			},
		},
		{
			Name: "JAL Keeps Operands",
			Input: testMachineState{
				Stack:  []int{1, 2},
				Memory: map[int]int{0: 1010},
			},
			Output: testMachineState{
				Program: 10,
				Stack:   []int{1, 2},
				Returns: []int{1},
			},
		},
		{
			Name: "RET",
			Input: testMachineState{
				Program: 60,
				Returns: []int{51, 5},
				Memory:  map[int]int{60: 911},
			},
			Output: testMachineState{
				Program: 51,
				Returns: []int{5},
			},
		},
		{
			Name:  "JAL RET Round Trip",
			Steps: 3,
			Input: testMachineState{
				Memory: map[int]int{0: 1020, 1: 0, 20: 407, 21: 911},
			},
			Output: testMachineState{
				Accumulator: 7,
				Program:     1,
			},
		},
		{
			Name: "RET Underflow",
			Input: testMachineState{
				Stack:  []int{3},
				Memory: map[int]int{0: 911},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
				Error:   machine.ERROR_STACK_UNDERFLOW,
				Stack:   []int{3},
			},
		},
		{
			Name: "JAL Overflow",
			Input: testMachineState{
				Stack:  fullStack,
				Memory: map[int]int{0: 1010},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
				Error:   machine.ERROR_STACK_OVERFLOW,
				Stack:   fullStack,
			},
		},
	})
}

// PUSH |920| .. SWAP |924|   Stack manipulation
func TestStack(t *testing.T) {
	fullStack := make([]int, machine.STACK_SIZE)

	testSuccess(t, []testCase{
		{
			Name: "PUSH",
			Input: testMachineState{
				Accumulator: 12,
				Stack:       []int{4},
				Memory:      map[int]int{0: 920},
			},
			Output: testMachineState{
				Accumulator: 12,
				Program:     1,
				Stack:       []int{12, 4},
			},
		},
		{
			Name: "PUSH Overflow",
			Input: testMachineState{
				Accumulator: 12,
				Stack:       fullStack,
				Memory:      map[int]int{0: 920},
			},
			Output: testMachineState{
				Accumulator: 12,
				Program:     1,
				Halted:      true,
				Error:       machine.ERROR_STACK_OVERFLOW,
				Stack:       fullStack,
			},
		},
		{
			Name: "PUSH Meets Return Stack",
			Input: testMachineState{
				Accumulator: 12,
				Stack:       make([]int, machine.STACK_SIZE-1),
				Returns:     []int{9},
				Memory:      map[int]int{0: 920},
			},
			Output: testMachineState{
				Accumulator: 12,
				Program:     1,
				Halted:      true,
				Error:       machine.ERROR_STACK_OVERFLOW,
				Stack:       make([]int, machine.STACK_SIZE-1),
				Returns:     []int{9},
			},
		},
		{
			Name: "POP",
			Input: testMachineState{
				Stack:  []int{-8, 4},
				Memory: map[int]int{0: 921},
			},
			Output: testMachineState{
				Accumulator: -8,
				Program:     1,
				Stack:       []int{4},
			},
		},
		{
			Name: "POP Underflow",
			Input: testMachineState{
				Accumulator: 3,
				Memory:      map[int]int{0: 921},
			},
			Output: testMachineState{
				Accumulator: 3,
				Program:     1,
				Halted:      true,
				Error:       machine.ERROR_STACK_UNDERFLOW,
			},
		},
		{
			Name:  "PUSH POP Round Trip",
			Steps: 3,
			Input: testMachineState{
				Accumulator: 33,
				Stack:       []int{1},
				Memory:      map[int]int{0: 920, 1: 400, 2: 921},
			},
			Output: testMachineState{
				Accumulator: 33,
				Program:     3,
				Stack:       []int{1},
			},
		},
		{
			Name: "DUP",
			Input: testMachineState{
				Stack:  []int{6, 2},
				Memory: map[int]int{0: 922},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{6, 6, 2},
			},
		},
		{
			Name: "DUP Underflow",
			Input: testMachineState{
				Memory: map[int]int{0: 922},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
				Error:   machine.ERROR_STACK_UNDERFLOW,
			},
		},
		{
			Name: "DROP",
			Input: testMachineState{
				Accumulator: 1,
				Stack:       []int{6, 2},
				Memory:      map[int]int{0: 923},
			},
			Output: testMachineState{
				Accumulator: 1,
				Program:     1,
				Stack:       []int{2},
			},
		},
		{
			Name: "DROP Underflow",
			Input: testMachineState{
				Memory: map[int]int{0: 923},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
				Error:   machine.ERROR_STACK_UNDERFLOW,
			},
		},
		{
			Name: "SWAP",
			Input: testMachineState{
				Stack:  []int{1, 2, 3},
				Memory: map[int]int{0: 924},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{2, 1, 3},
			},
		},
		{
			Name: "SWAP Underflow",
			Input: testMachineState{
				Stack:  []int{1},
				Memory: map[int]int{0: 924},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
				Error:   machine.ERROR_STACK_UNDERFLOW,
				Stack:   []int{1},
			},
		},
	})
}

// SADD |930| .. SMIN |935|   Stack arithmetic
func TestStackArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "SADD",
			Input: testMachineState{
				Stack:  []int{3, 4, 9},
				Memory: map[int]int{0: 930},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{7, 9},
			},
		},
		{
			Name: "SADD Capped",
			Input: testMachineState{
				Stack:  []int{600, 600},
				Memory: map[int]int{0: 930},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{999},
			},
		},
		{
			Name: "SSUB Second Minus Top",
			Input: testMachineState{
				Stack:  []int{3, 10},
				Memory: map[int]int{0: 931},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{7},
			},
		},
		{
			Name: "SSUB Capped",
			Input: testMachineState{
				Stack:  []int{999, -999},
				Memory: map[int]int{0: 931},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{-999},
			},
		},
		{
			Name: "SMUL",
			Input: testMachineState{
				Stack:  []int{-6, 7},
				Memory: map[int]int{0: 932},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{-42},
			},
		},
		{
			Name: "SMUL Capped",
			Input: testMachineState{
				Stack:  []int{999, 999},
				Memory: map[int]int{0: 932},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{999},
			},
		},
		{
			Name: "SMUL Capped Negative",
			Input: testMachineState{
				Stack:  []int{-999, 999},
				Memory: map[int]int{0: 932},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{-999},
			},
		},
		{
			Name: "SDIV",
			Input: testMachineState{
				Stack:  []int{4, 100},
				Memory: map[int]int{0: 933},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{25},
			},
		},
		{
			Name: "SDIV Truncates",
			Input: testMachineState{
				Stack:  []int{2, -7},
				Memory: map[int]int{0: 933},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{-3},
			},
		},
		{
			Name: "SDIV By Zero",
			Input: testMachineState{
				Accumulator: 8,
				Stack:       []int{0, 5},
				Memory:      map[int]int{0: 933},
			},
			Output: testMachineState{
				Accumulator: 8,
				Program:     1,
				Halted:      true,
				Error:       machine.ERROR_DIVISION_BY_ZERO,
				Stack:       []int{0, 5},
			},
		},
		{
			Name: "SMAX",
			Input: testMachineState{
				Stack:  []int{-3, 2},
				Memory: map[int]int{0: 934},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{2},
			},
		},
		{
			Name: "SMIN",
			Input: testMachineState{
				Stack:  []int{-3, 2, 8},
				Memory: map[int]int{0: 935},
			},
			Output: testMachineState{
				Program: 1,
				Stack:   []int{-3, 8},
			},
		},
		{
			Name: "SADD Underflow",
			Input: testMachineState{
				Stack:  []int{5},
				Memory: map[int]int{0: 930},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
				Error:   machine.ERROR_STACK_UNDERFLOW,
				Stack:   []int{5},
			},
		},
		{
			Name: "SDIV Underflow",
			Input: testMachineState{
				Stack:  []int{0},
				Memory: map[int]int{0: 933},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
				Error:   machine.ERROR_STACK_UNDERFLOW,
				Stack:   []int{0},
			},
		},
		{
			Name: "SMIN Ignores Return Stack",
			Input: testMachineState{
				Stack:   []int{1},
				Returns: []int{4, 5},
				Memory:  map[int]int{0: 935},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
				Error:   machine.ERROR_STACK_UNDERFLOW,
				Stack:   []int{1},
				Returns: []int{4, 5},
			},
		},
	})
}

// INP  |901|          | Read a number into the accumulator
// OUT  |902|          | Write the accumulator
func TestInputOutput(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "OUT",
			Input: testMachineState{
				Accumulator: -42,
				Output:      "17",
				Memory:      map[int]int{0: 902},
			},
			Output: testMachineState{
				Accumulator: -42,
				Program:     1,
				Output:      "-42",
			},
		},
		{
			Name:    "OUT Display",
			Display: "5\n",
			Input: testMachineState{
				Accumulator: 5,
				Memory:      map[int]int{0: 902},
			},
			Output: testMachineState{
				Accumulator: 5,
				Program:     1,
				Output:      "5",
			},
		},
		{
			Name:    "OUT Replaces Output",
			Steps:   4,
			Display: "1\n2\n",
			Input: testMachineState{
				Memory: map[int]int{0: 401, 1: 902, 2: 402, 3: 902},
			},
			Output: testMachineState{
				Accumulator: 2,
				Program:     4,
				Output:      "2",
			},
		},
		{
			Name:     "INP",
			Keyboard: "17\n",
			Input: testMachineState{
				Memory: map[int]int{0: 901},
			},
			Output: testMachineState{
				Accumulator: 17,
				Program:     1,
			},
		},
		{
			Name:     "INP Without Newline",
			Keyboard: " -3 ",
			Input: testMachineState{
				Memory: map[int]int{0: 901},
			},
			Output: testMachineState{
				Accumulator: -3,
				Program:     1,
			},
		},
		{
			Name:     "INP Capped",
			Keyboard: "5000\n",
			Input: testMachineState{
				Memory: map[int]int{0: 901},
			},
			Output: testMachineState{
				Accumulator: 999,
				Program:     1,
			},
		},
		{
			Name:     "INP Beyond Word Range",
			Keyboard: "5000000000\n",
			Input: testMachineState{
				Memory: map[int]int{0: 901},
			},
			Output: testMachineState{
				Accumulator: 999,
				Program:     1,
			},
		},
		{
			Name:     "INP Beyond Integer Range",
			Keyboard: "-99999999999999999999\n",
			Input: testMachineState{
				Memory: map[int]int{0: 901},
			},
			Output: testMachineState{
				Accumulator: -999,
				Program:     1,
			},
		},
		{
			Name:     "INP Prompt",
			Keyboard: "8\n",
			Display:  "? ",
			Prompt:   "? ",
			Input: testMachineState{
				Memory: map[int]int{0: 901},
			},
			Output: testMachineState{
				Accumulator: 8,
				Program:     1,
			},
		},
		{
			Name:     "INP Invalid",
			Keyboard: "abc\n",
			Input: testMachineState{
				Accumulator: 4,
				Memory:      map[int]int{0: 901},
			},
			Output: testMachineState{
				Accumulator: 4,
				Program:     1,
				Halted:      true,
				Error:       machine.ERROR_INVALID_INPUT,
			},
		},
		{
			Name: "INP No Keyboard",
			Input: testMachineState{
				Memory: map[int]int{0: 901},
			},
			Output: testMachineState{
				Program: 1,
				Halted:  true,
				Error:   machine.ERROR_INVALID_INPUT,
			},
		},
		{
			Name:     "INP End Of Input",
			Steps:    2,
			Keyboard: "1\n",
			Input: testMachineState{
				Memory: map[int]int{0: 901, 1: 901},
			},
			Output: testMachineState{
				Accumulator: 1,
				Program:     2,
				Halted:      true,
				Error:       machine.ERROR_INVALID_INPUT,
			},
		},
	})
}

func TestUnknownInstruction(t *testing.T) {
	for _, instruction := range []int{
		12345, 1, 99, 900, 903, 910, 912, 919, 925, 929, 936, 999, 1100, -1,
	} {
		testMachineSuccess(t, &testCase{
			Input: testMachineState{
				Accumulator: 9,
				Memory:      map[int]int{0: instruction},
			},
			Output: testMachineState{
				Accumulator: 9,
				Program:     1,
				Halted:      true,
				Error:       machine.ERROR_UNKNOWN_INSTRUCTION,
			},
		})
	}
}

func TestFetchOutOfBounds(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Fall Off End Of Memory",
			Steps: 2,
			Input: testMachineState{
				Program: 99,
				Memory:  map[int]int{99: 401},
			},
			Output: testMachineState{
				Accumulator: 1,
				Program:     100,
				Halted:      true,
				Error:       machine.ERROR_OUT_OF_BOUNDS,
			},
		},
		{
			Name: "Negative Program Counter",
			Input: testMachineState{
				Program: -1,
				Memory:  map[int]int{0: 401},
			},
			Output: testMachineState{
				Program: -1,
				Halted:  true,
				Error:   machine.ERROR_OUT_OF_BOUNDS,
			},
		},
	})
}

func TestDecode(t *testing.T) {
	tests := []struct {
		instruction int
		op          machine.Opcode
		operand     int
		ok          bool
	}{
		{0, machine.OP_HLT, 0, true},
		{100, machine.OP_ADD, 0, true},
		{199, machine.OP_ADD, 99, true},
		{250, machine.OP_SUB, 50, true},
		{301, machine.OP_STA, 1, true},
		{499, machine.OP_LDI, 99, true},
		{500, machine.OP_LDA, 0, true},
		{612, machine.OP_BRA, 12, true},
		{713, machine.OP_BRZ, 13, true},
		{814, machine.OP_BRP, 14, true},
		{901, machine.OP_INP, 0, true},
		{902, machine.OP_OUT, 0, true},
		{911, machine.OP_RET, 0, true},
		{924, machine.OP_SWAP, 0, true},
		{935, machine.OP_SMIN, 0, true},
		{1000, machine.OP_JAL, 0, true},
		{1099, machine.OP_JAL, 99, true},
		{50, 0, 0, false},
		{910, 0, 0, false},
		{1100, 0, 0, false},
	}

	for _, test := range tests {
		op, operand, ok := machine.Decode(test.instruction)

		if ok != test.ok || op != test.op || operand != test.operand {
			t.Errorf(
				"Decode(%d)\nwant:%s %d %t\nhave:%s %d %t",
				test.instruction,
				test.op, test.operand, test.ok,
				op, operand, ok,
			)
		}
	}
}
