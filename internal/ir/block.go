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

package ir

import (
    `fmt`
)

// Block is an ordered sequence of instructions ending in a terminator.
// Passes may rewrite instructions in place and append or insert new ones,
// but never alter the block linkage itself.
type Block struct {
    Id   int
    Pred []*Block
    Ins  []*Inst
}

func (self *Block) appendInstr(p *Inst) {
    self.Ins = append(self.Ins, p)
}

// insertBefore inserts p in front of mark. The instruction list is
// rebuilt into a fresh slice so that iterations holding the previous
// slice header are not disturbed by the insertion.
func (self *Block) insertBefore(mark *Inst, p *Inst) {
    ins := make([]*Inst, 0, len(self.Ins) + 1)
    hit := false

    /* copy over, splicing p in front of the mark */
    for _, v := range self.Ins {
        if v == mark {
            hit = true
            ins = append(ins, p)
        }
        ins = append(ins, v)
    }

    /* the mark must be a member of this block */
    if !hit {
        panic(fmt.Sprintf("ir: insertion point %s is not in bb_%d", mark, self.Id))
    }
    self.Ins = ins
}

// Terminator returns the control flow instruction ending the block, or
// nil if the block is not yet terminated.
func (self *Block) Terminator() *Inst {
    if n := len(self.Ins); n == 0 {
        return nil
    } else if p := self.Ins[n - 1]; p.op != OpBranch && p.op != OpBranchConditional && p.op != OpReturn {
        return nil
    } else {
        return p
    }
}

// Successors enumerates the branch targets of the block terminator in
// argument order, which makes every traversal derived from it
// deterministic.
func (self *Block) Successors() []*Block {
    switch p := self.Terminator(); {
        case p == nil                    : return nil
        case p.op == OpBranch            : return []*Block { p.Arg(0).Label() }
        case p.op == OpBranchConditional : return []*Block { p.Arg(1).Label(), p.Arg(2).Label() }
        default                          : return nil
    }
}

func (self *Block) String() string {
    return fmt.Sprintf("bb_%d", self.Id)
}
