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
    `bytes`
    `strings`
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
    `github.com/velvet-emu/shaderc/internal/ir`
)

func drawable() *ir.Program {
    p := ir.CreateProgram()
    bj := p.CreateBlock()
    e := ir.NewEmitter(p.Entry)
    x := e.GetRegister(0)
    e.SetRegister(1, e.IAdd32(x, e.IMul32(x, x)))
    e.Branch(bj)
    ir.NewEmitter(bj).Return()
    return p
}

func TestDump(t *testing.T) {
    p := drawable()
    s := Dump(p)
    t.Log("\n" + s)

    require.Contains(t, s, "bb_0:")
    require.Contains(t, s, "bb_1:")
    require.Contains(t, s, "%0 = get_register")
    require.Contains(t, s, "imul32")
    require.Contains(t, s, "iadd32")

    /* register writes produce no value, so they carry no name */
    require.Contains(t, s, "\n    set_register")
    assert.Equal(t, s, Dump(p))
}

func TestDrawProgram(t *testing.T) {
    var buf bytes.Buffer
    DrawProgram(&buf, drawable())
    s := buf.String()

    require.True(t, strings.HasPrefix(s, "<?xml"))
    require.Contains(t, s, "<svg")
    require.Contains(t, s, "</svg>")
    require.Contains(t, s, "bb_0")
    require.Contains(t, s, "imul32")

    /* one column per used value: x, the mul and the add */
    require.Equal(t, 3, strings.Count(s, "fill:white;stroke:black"))
}

func TestSpewProgram(t *testing.T) {
    var buf bytes.Buffer
    SpewProgram(&buf, drawable())
    require.Contains(t, buf.String(), "Blocks")
}
