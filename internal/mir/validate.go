package mir

import (
	"errors"
	"fmt"
)

// Validate checks the invariants region inference relies on:
// block ids match positions, every block is terminated and every
// jump targets an existing block.
func (f *Func) Validate() error {
	if f == nil {
		return nil
	}
	var errs []error
	if len(f.Blocks) > 0 && f.Block(f.Entry) == nil {
		errs = append(errs, fmt.Errorf("entry %s does not exist", f.Entry))
	}
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if int(bb.ID) != i {
			errs = append(errs, fmt.Errorf("bb%d: block carries id %s", i, bb.ID))
		}
		if !bb.Terminated() {
			errs = append(errs, fmt.Errorf("bb%d: unterminated block", i))
			continue
		}
		for _, succ := range bb.Term.Successors() {
			if f.Block(succ) == nil {
				errs = append(errs, fmt.Errorf("bb%d: %s targets missing block %s", i, bb.Term.Kind, succ))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("function %s: %w", f.Name, err)
	}
	return nil
}
