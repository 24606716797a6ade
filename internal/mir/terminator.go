package mir

type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermGoto
	TermIf
	TermUnreachable
)

func (k TermKind) String() string {
	switch k {
	case TermNone:
		return "none"
	case TermReturn:
		return "return"
	case TermGoto:
		return "goto"
	case TermIf:
		return "if"
	case TermUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

type Terminator struct {
	Kind TermKind

	Goto GotoTerm
	If   IfTerm
}

type GotoTerm struct {
	Target BlockID
}

type IfTerm struct {
	Then BlockID
	Else BlockID
}

// Successors lists the blocks control may transfer to.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermGoto:
		return []BlockID{t.Goto.Target}
	case TermIf:
		if t.If.Then == t.If.Else {
			return []BlockID{t.If.Then}
		}
		return []BlockID{t.If.Then, t.If.Else}
	default:
		return nil
	}
}
