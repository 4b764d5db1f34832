/*
 * Copyright 2023 Velvet Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opt

import (
    `fmt`

    `github.com/velvet-emu/shaderc/internal/ir`
)

// Verify checks the structural integrity of a program after the other
// passes ran: argument counts must match the opcode table and every
// def-use edge must point both ways. A violation is a bug in a pass,
// not in the shader, so it is fatal.
type Verify struct{}

func (self Verify) Apply(p *ir.Program) {
    for _, bb := range p.ReversePostOrder() {
        for _, v := range bb.Ins {
            self.checkArity(bb, v)
            self.checkEdges(bb, v)
        }
    }
}

func (self Verify) checkArity(bb *ir.Block, v *ir.Inst) {
    if n := v.Opcode().NumArgs(); n != -1 && n != v.NumArgs() {
        panic(fmt.Sprintf("verify: %s in %s has %d arguments, wants %d", v.Opcode(), bb, v.NumArgs(), n))
    }
}

func (self Verify) checkEdges(bb *ir.Block, v *ir.Inst) {
    for i := 0; i < v.NumArgs(); i++ {
        a := v.Arg(i)
        if a.IsImmediate() || a.Type() == ir.TypeVoid {
            continue
        }

        /* the producer must carry a matching use edge */
        found := false
        for _, u := range a.Inst().Uses() {
            if u.Inst == v && u.Arg == i {
                found = true
                break
            }
        }
        if !found {
            panic(fmt.Sprintf("verify: %s in %s: argument %d has no backing use edge", v.Opcode(), bb, i))
        }
    }
}
