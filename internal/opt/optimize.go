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

type Pass interface {
    Apply(*ir.Program)
}

type _PassDescriptor struct {
    pass Pass
    desc string
}

var _passes = [...]_PassDescriptor {
    { desc: "Constant Propagation"    , pass: new(ConstProp) },
    { desc: "Identity Elimination"    , pass: new(IdentityElim) },
    { desc: "Dead Code Elimination"   , pass: new(DeadCode) },
    { desc: "Program Verification"    , pass: new(Verify) },
}

// Optimize runs the whole pass pipeline over a program, in order.
func Optimize(p *ir.Program) {
    for _, d := range _passes {
        d.pass.Apply(p)
    }
}
