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

package machine

import (
	"context"

	"github.com/pkg/errors"
)

// Run steps the machine until it halts, ctx is done, or MaxSteps is
// reached. It returns nil after HLT and a *Fault when a fault halted the
// machine. Cancellation and the step limit leave the machine running, so Run
// may be called again to resume.
func (mc *Machine) Run(ctx context.Context) error {
	if mc.State.Status == STATUS_HALTED {
		return mc.State.Err()
	}

	mc.State.Status = STATUS_RUNNING

	for steps := uint64(0); mc.State.Status != STATUS_HALTED; steps++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "run cancelled")
		}

		if mc.MaxSteps > 0 && steps >= mc.MaxSteps {
			return ErrStepLimit
		}

		mc.Step()
	}

	return mc.State.Err()
}
