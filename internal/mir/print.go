package mir

import (
	"fmt"
	"io"
)

// DumpFunc writes a human-readable listing of f with the location of every
// statement and terminator.
func DumpFunc(w io.Writer, f *Func) error {
	if w == nil || f == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "fn %s (entry %s)\n", f.Name, f.Entry); err != nil {
		return err
	}
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if _, err := fmt.Fprintf(w, "  %s:\n", bb.ID); err != nil {
			return err
		}
		for j, st := range bb.Stmts {
			loc := Location{Block: bb.ID, Statement: j}
			if _, err := fmt.Fprintf(w, "    %-10s %s\n", loc, st.Text); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "    %-10s %s\n", bb.TerminatorLocation(), termString(&bb.Term)); err != nil {
			return err
		}
	}
	return nil
}

func termString(t *Terminator) string {
	switch t.Kind {
	case TermGoto:
		return fmt.Sprintf("goto %s", t.Goto.Target)
	case TermIf:
		return fmt.Sprintf("if -> %s, %s", t.If.Then, t.If.Else)
	default:
		return t.Kind.String()
	}
}
