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

package encoding

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Decodes a hexidecimal string in the formats: 0x1F, x1F
func DecodeHex(s string) (int, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseInt(s, 0, 32)

	if err != nil {
		return 0, err
	}

	return int(result), nil
}

// Decodes a base-10 string in the formats: #123, 123, -123
func DecodeInt(s string) (int, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, strconv.IntSize)

	if err != nil {
		return 0, err
	}

	return int(result), nil
}

// DecodeValue decodes a base-10 string like DecodeInt, but a well-formed
// number beyond the native int range saturates to the nearest bound instead
// of failing.
func DecodeValue(s string) (int, error) {
	value, err := DecodeInt(s)

	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(strings.TrimPrefix(s, "#"), "-") {
			return math.MinInt, nil
		}

		return math.MaxInt, nil
	}

	return value, err
}

// Decodes an address given either in hex or base-10
func DecodeAddr(s string) (int, error) {
	if value, err := DecodeHex(s); err == nil {
		return value, nil
	}

	return DecodeInt(s)
}

// DecodeProgram reads a decimal listing: integers separated by whitespace or
// commas, with ';' starting a comment that runs to the end of the line.
func DecodeProgram(reader io.Reader) ([]int, error) {
	program := make([]int, 0)
	scanner := bufio.NewScanner(reader)

	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()

		if i := strings.IndexByte(text, ';'); i != -1 {
			text = text[:i]
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\r'
		})

		for _, field := range fields {
			value, err := DecodeInt(field)

			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}

			program = append(program, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return program, nil
}

// EncodeBin writes program as big-endian signed 16-bit words.
func EncodeBin(writer io.Writer, program []int) error {
	words := make([]int16, len(program))

	for i, value := range program {
		if value > math.MaxInt16 || value < math.MinInt16 {
			return errors.Errorf(
				"value %d at address %d does not fit in a word", value, i,
			)
		}

		words[i] = int16(value)
	}

	return binary.Write(writer, binary.BigEndian, words)
}
