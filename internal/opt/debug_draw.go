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
    `io`
    `strings`

    `github.com/ajstarks/svgo`
    `github.com/davecgh/go-spew/spew`
    `github.com/velvet-emu/shaderc/internal/ir`
)

/* sequential result names, assigned in traversal order */
type _Namer struct {
    seq   int
    names map[*ir.Inst]int
}

func newNamer(p *ir.Program) *_Namer {
    n := &_Namer { names: make(map[*ir.Inst]int) }
    for _, bb := range p.ReversePostOrder() {
        for _, v := range bb.Ins {
            n.names[v] = n.seq
            n.seq++
        }
    }
    return n
}

func (self *_Namer) value(v ir.Value) string {
    if v.Type() != ir.TypeOpaque {
        return v.String()
    } else if i, ok := self.names[v.Inst()]; ok {
        return fmt.Sprintf("%%%d", i)
    } else {
        return "%?"
    }
}

func (self *_Namer) inst(v *ir.Inst) string {
    nb := v.NumArgs()
    ret := make([]string, 0, nb)

    /* dump the arguments */
    for i := 0; i < nb; i++ {
        ret = append(ret, self.value(v.Arg(i)))
    }

    /* instructions without a value don't get a result name */
    if v.UseCount() == 0 && v.Opcode().HasSideEffects() {
        return fmt.Sprintf("%s %s", v.Opcode(), strings.Join(ret, ", "))
    } else {
        return fmt.Sprintf("%%%d = %s %s", self.names[v], v.Opcode(), strings.Join(ret, ", "))
    }
}

// Dump renders the whole program as text, one block per paragraph, with
// stable result numbering. Two structurally identical programs dump to
// identical strings, which the tests rely on.
func Dump(p *ir.Program) string {
    nn := newNamer(p)
    buf := make([]string, 0, len(p.Blocks) * 8)
    for _, bb := range p.ReversePostOrder() {
        buf = append(buf, fmt.Sprintf("%s:", bb))
        for _, v := range bb.Ins {
            buf = append(buf, "    " + nn.inst(v))
        }
    }
    return strings.Join(buf, "\n")
}

// SpewProgram dumps the raw in-memory representation of a program, depth
// limited so the def-use back edges don't explode the output.
func SpewProgram(w io.Writer, p *ir.Program) {
    cfg := spew.ConfigState { Indent: "    ", MaxDepth: 4, DisablePointerAddresses: true }
    cfg.Fdump(w, p)
}

// DrawProgram renders the program as an SVG: one row per instruction,
// one column per value-producing instruction, a hollow dot at the
// definition and solid dots at every use.
func DrawProgram(w io.Writer, p *ir.Program) {
    nn := newNamer(p)
    row := make(map[*ir.Inst]int)
    used := make([]*ir.Inst, 0, len(nn.names))

    /* assign rows and pick the instructions worth a column */
    nr := 0
    order := p.ReversePostOrder()
    for _, bb := range order {
        for _, v := range bb.Ins {
            row[v] = nr
            nr++
            if v.UseCount() != 0 {
                used = append(used, v)
            }
        }
        nr++
    }

    /* text width drives the layout */
    maxw := 0
    for _, bb := range order {
        for _, v := range bb.Ins {
            if n := len(nn.inst(v)); n > maxw {
                maxw = n
            }
        }
    }
    insw := maxw * 9 + 120
    colw := 48

    q := svg.New(w)
    q.Start(insw + len(used) * colw + 100, nr * 24 + 100)

    /* instruction rows, grouped by block */
    nr = 0
    for _, bb := range order {
        q.Text(16, 100 + nr * 24, bb.String(), "fill:gray;font-size:16px;font-family:monospace")
        q.Line(10, 84 + nr * 24, insw + 5, 84 + nr * 24, "stroke:lightgray")
        for _, v := range bb.Ins {
            q.Text(insw, 100 + nr * 24, nn.inst(v), "fill:black;font-size:16px;font-family:monospace;text-anchor:end")
            q.Line(insw + 10, 95 + nr * 24, insw + len(used) * colw + 50, 95 + nr * 24, "stroke:lightgray")
            nr++
        }
        nr++
    }

    /* def-use columns */
    for i, v := range used {
        x := insw + i * colw + 50
        lo := row[v]
        hi := row[v]
        for _, u := range v.Uses() {
            if r, ok := row[u.Inst]; ok && r > hi {
                hi = r
            }
        }
        q.Text(x, 70, nn.value(ir.InstValue(v)), "fill:black;font-size:16px;font-family:monospace;text-anchor:middle")
        q.Line(x, 95 + lo * 24, x, 95 + hi * 24, "stroke:black;stroke-width:3")
        q.Circle(x, 95 + row[v] * 24, 4, "fill:white;stroke:black;stroke-width:2")
        for _, u := range v.Uses() {
            if r, ok := row[u.Inst]; ok {
                q.Circle(x, 95 + r * 24, 4, "fill:black;stroke:black;stroke-width:2")
            }
        }
    }
    q.End()
}
