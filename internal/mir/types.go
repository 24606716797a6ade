package mir

import "fmt"

type BlockID int32

const NoBlockID BlockID = -1

func (b BlockID) String() string {
	return fmt.Sprintf("bb%d", int32(b))
}

// Location is a point in the control-flow graph. Statement ranges over
// [0, len(Block.Stmts)]; the last value addresses the block's terminator.
type Location struct {
	Block     BlockID
	Statement int
}

func (l Location) String() string {
	return fmt.Sprintf("%s[%d]", l.Block, l.Statement)
}

// Successor returns the next location inside the same block.
func (l Location) Successor() Location {
	return Location{Block: l.Block, Statement: l.Statement + 1}
}
