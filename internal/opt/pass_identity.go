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

// IdentityElim rewrites every argument that refers to an identity
// instruction to refer to the resolved value instead. Folding degrades
// replaced instructions into identities; resolving them here leaves the
// identities unused, and dead code elimination reclaims them.
type IdentityElim struct{}

func (self IdentityElim) Apply(p *ir.Program) {
    for _, bb := range p.ReversePostOrder() {
        for _, v := range bb.Ins {
            for i := 0; i < v.NumArgs(); i++ {
                if a := v.Arg(i); a.IsImmediate() {
                    continue
                } else if r := a.Resolve(); r != a {
                    v.SetArg(i, r)
                }
            }
        }
    }
}
