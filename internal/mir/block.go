package mir

// Stmt is an opaque statement. Region inference only cares about where a
// statement sits, so the text is kept for dumps.
type Stmt struct {
	Text string
}

type Block struct {
	ID    BlockID
	Stmts []Stmt
	Term  Terminator
}

func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}

// TerminatorLocation is the point of the block's terminator.
func (b *Block) TerminatorLocation() Location {
	return Location{Block: b.ID, Statement: len(b.Stmts)}
}
