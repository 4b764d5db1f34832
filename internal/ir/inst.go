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
    `strings`
)

// Use records one consumer of an instruction's result: argument slot Arg
// of instruction Inst refers back to the producer.
type Use struct {
    Inst *Inst
    Arg  int
}

// Inst is a single IR instruction. Instructions have stable identities:
// passes rewrite their operands, opcodes and uses in place but never move
// or delete them, so *Inst handles stay valid across a whole pass.
type Inst struct {
    op    Opcode
    flags FpControl
    args  []Value
    uses  []Use
}

func newInst(op Opcode, args ...Value) *Inst {
    if n := op.NumArgs(); n != _N_variadic && n != len(args) {
        panic(fmt.Sprintf("ir: opcode %s takes %d arguments, got %d", op, n, len(args)))
    }
    p := &Inst { op: op, args: make([]Value, len(args)) }
    for i, v := range args {
        p.args[i] = v
        if v.t == TypeOpaque {
            v.inst.addUse(p, i)
        }
    }
    return p
}

func (self *Inst) addUse(user *Inst, arg int) {
    self.uses = append(self.uses, Use { Inst: user, Arg: arg })
}

func (self *Inst) delUse(user *Inst, arg int) {
    for i, u := range self.uses {
        if u.Inst == user && u.Arg == arg {
            self.uses = append(self.uses[:i], self.uses[i + 1:]...)
            return
        }
    }
    panic("ir: use edge not found, def-use chains are corrupted")
}

// Opcode returns the operation performed by this instruction.
func (self *Inst) Opcode() Opcode {
    return self.op
}

// NumArgs returns the current argument count.
func (self *Inst) NumArgs() int {
    return len(self.args)
}

// Arg returns the argument at index i.
func (self *Inst) Arg(i int) Value {
    if i < 0 || i >= len(self.args) {
        panic(fmt.Sprintf("ir: argument index %d out of range for %s", i, self.op))
    } else {
        return self.args[i]
    }
}

// SetArg replaces the argument at index i, keeping def-use edges in sync.
func (self *Inst) SetArg(i int, v Value) {
    if i < 0 || i >= len(self.args) {
        panic(fmt.Sprintf("ir: argument index %d out of range for %s", i, self.op))
    }
    if old := self.args[i]; old.t == TypeOpaque {
        old.inst.delUse(self, i)
    }
    self.args[i] = v
    if v.t == TypeOpaque {
        v.inst.addUse(self, i)
    }
}

// AreAllArgsImmediates reports whether every argument is a compile time
// constant.
func (self *Inst) AreAllArgsImmediates() bool {
    for _, v := range self.args {
        if !v.IsImmediate() {
            return false
        }
    }
    return true
}

// Flags returns the floating point control bits of this instruction.
func (self *Inst) Flags() FpControl {
    return self.flags
}

func (self *Inst) SetFlags(fc FpControl) {
    self.flags = fc
}

// UseCount returns the number of argument slots referring to this
// instruction's result.
func (self *Inst) UseCount() int {
    return len(self.uses)
}

// Uses returns a copy of the current def-use edges.
func (self *Inst) Uses() []Use {
    return append([]Use(nil), self.uses...)
}

// HasAssociatedPseudoOperation reports whether any consumer is a
// pseudo-operation extracting a secondary result (zero, sign, carry or
// overflow flag) out of this instruction.
func (self *Inst) HasAssociatedPseudoOperation() bool {
    for _, u := range self.uses {
        if u.Inst.op.IsPseudo() {
            return true
        }
    }
    return false
}

// ReplaceUsesWith rewires every consumer of this instruction to v, then
// degrades the instruction itself into an identity of v so that stale
// references and pending iterations still resolve to the replacement.
// The instruction stays in its block; dead code elimination reclaims it.
func (self *Inst) ReplaceUsesWith(v Value) {
    if self.HasAssociatedPseudoOperation() {
        panic(fmt.Sprintf("ir: cannot replace %s, pseudo-operations pin its secondary results", self.op))
    }

    /* rewire all the consumers, the use list shrinks as we go */
    for len(self.uses) != 0 {
        u := self.uses[len(self.uses) - 1]
        u.Inst.SetArg(u.Arg, v)
    }

    /* release our own operands before mutating the argument list */
    for i, a := range self.args {
        if a.t == TypeOpaque {
            a.inst.delUse(self, i)
        }
    }

    /* degrade to an identity of the replacement */
    self.op = OpIdentity
    self.args = self.args[:0]
    self.args = append(self.args, Value{})
    self.SetArg(0, v)
}

// ReplaceOpcode rewrites the operation in place, resizing the argument
// list to the new arity. New argument slots start out void and must be
// filled with SetArg before the instruction is used again.
func (self *Inst) ReplaceOpcode(op Opcode) {
    n := op.NumArgs()
    if n == _N_variadic {
        panic(fmt.Sprintf("ir: cannot replace opcode with variadic %s", op))
    }

    /* release operands beyond the new arity */
    for i := n; i < len(self.args); i++ {
        if a := self.args[i]; a.t == TypeOpaque {
            a.inst.delUse(self, i)
        }
    }

    /* shrink or grow the argument list */
    if n <= len(self.args) {
        self.args = self.args[:n]
    } else {
        for len(self.args) < n {
            self.args = append(self.args, Value{})
        }
    }
    self.op = op
}

// Invalidate releases every operand reference and turns the instruction
// into a void. Only legal on instructions with no remaining uses.
func (self *Inst) Invalidate() {
    if len(self.uses) != 0 {
        panic(fmt.Sprintf("ir: invalidating %s while it still has %d uses", self.op, len(self.uses)))
    }
    for i, a := range self.args {
        if a.t == TypeOpaque {
            a.inst.delUse(self, i)
        }
    }
    self.op = OpVoid
    self.args = nil
}

func (self *Inst) String() string {
    nb := len(self.args)
    ret := make([]string, 0, nb)

    /* dump the arguments */
    for _, v := range self.args {
        ret = append(ret, v.String())
    }

    /* join them together */
    return fmt.Sprintf(
        "%s %s",
        self.op,
        strings.Join(ret, ", "),
    )
}
