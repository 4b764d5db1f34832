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
    `github.com/velvet-emu/shaderc/internal/ir`
)

// DeadCode removes instructions whose result is never used and whose
// operation writes no hardware state. Blocks are visited in post-order
// and instructions in reverse, so a whole dead expression tree dies in
// one sweep: removing the root releases the operand references that
// kept its children alive.
type DeadCode struct{}

func (self DeadCode) Apply(p *ir.Program) {
    for _, bb := range p.PostOrder() {
        ins := make([]*ir.Inst, 0, len(bb.Ins))

        /* collect the live instructions, in reverse */
        for i := len(bb.Ins) - 1; i >= 0; i-- {
            v := bb.Ins[i]
            if v.UseCount() == 0 && !v.Opcode().HasSideEffects() {
                v.Invalidate()
            } else {
                ins = append(ins, v)
            }
        }

        /* rebuild the block in program order */
        instreverse(ins)
        bb.Ins = ins
    }
}

func instreverse(ins []*ir.Inst) {
    for i, j := 0, len(ins) - 1; i < j; i, j = i + 1, j - 1 {
        ins[i], ins[j] = ins[j], ins[i]
    }
}
