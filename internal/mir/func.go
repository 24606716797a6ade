package mir

import (
	"fmt"

	"fortio.org/safecast"
)

type Func struct {
	Name   string
	Blocks []Block
	Entry  BlockID
}

// NumBlocks reports the number of basic blocks.
func (f *Func) NumBlocks() int {
	if f == nil {
		return 0
	}
	return len(f.Blocks)
}

// NumStatements reports the statement count of block b (terminator excluded).
func (f *Func) NumStatements(b BlockID) int {
	return len(f.Blocks[b].Stmts)
}

// Block returns the block with the given id or nil.
func (f *Func) Block(b BlockID) *Block {
	if f == nil || b < 0 || int(b) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[b]
}

// NewBlock appends an empty block and returns its id.
func (f *Func) NewBlock() BlockID {
	id, err := safecast.Conv[int32](len(f.Blocks))
	if err != nil {
		panic(fmt.Errorf("mir: block id overflow: %w", err))
	}
	f.Blocks = append(f.Blocks, Block{ID: BlockID(id)})
	return BlockID(id)
}
