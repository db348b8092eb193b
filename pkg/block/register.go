// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-blockcipher.
//
// go-blockcipher is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package block

// Register is the feedback shift register of the CFB and OFB stream
// modes. It owns a private copy of its content; callers only ever see
// clones. A Register is not safe for concurrent use.
type Register struct {
	content Block
}

// NewRegister returns a register loaded with a copy of seed.
func NewRegister(seed Block) (*Register, error) {
	if seed == nil {
		return nil, newError(ErrInvalidArgument, "nil register seed")
	}
	return &Register{content: seed.Clone()}, nil
}

// Feed replaces the content with transform(content). The transform must
// preserve the bit length.
func (r *Register) Feed(transform func(Block) (Block, error)) error {
	out, err := transform(r.content.Clone())
	if err != nil {
		return err
	}
	if out == nil || out.Bits() != r.content.Bits() {
		return newError(ErrInvalidArgument, "register transform changed the block width")
	}
	r.content = out.Clone()
	return nil
}

// Head returns the first byte of the content.
func (r *Register) Head() (byte, error) {
	return r.content.Byte(1)
}

// Push shifts the content left by one byte, discarding the first byte,
// and loads b into the last byte.
func (r *Register) Push(b byte) error {
	shifted, err := r.content.LeftShift(8, false)
	if err != nil {
		return err
	}
	if err := shifted.setByte(b, shifted.Bytes()); err != nil {
		return err
	}
	r.content = shifted
	return nil
}

// Block returns a copy of the content.
func (r *Register) Block() Block {
	return r.content.Clone()
}
