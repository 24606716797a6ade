package config

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"regionck/internal/mir"
	"regionck/internal/region"
	"regionck/internal/solve"
)

// Problems converts every function of f into a solve.Problem.
func (f *File) Problems() ([]*solve.Problem, error) {
	out := make([]*solve.Problem, 0, len(f.Funcs))
	var errs []error
	for i := range f.Funcs {
		p, err := f.Funcs[i].Problem()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, p)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

// Problem converts fc into a solve.Problem. Universal regions get the first
// region ids in declaration order, the remaining regions follow.
func (fc *FuncConfig) Problem() (*solve.Problem, error) {
	fn, err := fc.buildFunc()
	if err != nil {
		return nil, fmt.Errorf("func %s: %w", fc.Name, err)
	}
	p := &solve.Problem{Func: fn, NumUniversal: len(fc.Universal)}

	ids := make(map[string]region.RegionVid)
	var errs []error
	declare := func(name string) {
		name = normalizeName(name)
		if name == "" {
			errs = append(errs, errors.New("empty region name"))
			return
		}
		if _, dup := ids[name]; dup {
			errs = append(errs, fmt.Errorf("region %s declared twice", name))
			return
		}
		id, err := safecast.Conv[uint32](len(p.Names))
		if err != nil {
			errs = append(errs, fmt.Errorf("region id overflow: %w", err))
			return
		}
		ids[name] = region.RegionVid(id)
		p.Names = append(p.Names, name)
	}
	for _, n := range fc.Universal {
		declare(n)
	}
	for _, n := range fc.Regions {
		declare(n)
	}
	lookup := func(what, name string) region.RegionVid {
		id, ok := ids[normalizeName(name)]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: undeclared region %q", what, name))
		}
		return id
	}

	for _, l := range fc.Live {
		r := lookup("live", l.Region)
		to := l.From
		if l.To != nil {
			to = *l.To
		}
		if l.Block < 0 || l.Block >= len(fn.Blocks) {
			errs = append(errs, fmt.Errorf("live: block %d does not exist", l.Block))
			continue
		}
		bb := &fn.Blocks[l.Block]
		if l.From < 0 || l.From > to || to > len(bb.Stmts) {
			errs = append(errs, fmt.Errorf("live: statements %d..=%d outside %s (%d points)", l.From, to, bb.ID, len(bb.Stmts)+1))
			continue
		}
		for s := l.From; s <= to; s++ {
			p.Live = append(p.Live, solve.LiveAt{Region: r, At: mir.Location{Block: bb.ID, Statement: s}})
		}
	}
	for _, o := range fc.Outlives {
		p.Outlives = append(p.Outlives, solve.Outlives{Sup: lookup("outlives", o.Sup), Sub: lookup("outlives", o.Sub)})
	}
	for _, k := range fc.Known {
		p.Known = append(p.Known, solve.Outlives{Sup: lookup("known", k.Longer), Sub: lookup("known", k.Shorter)})
	}
	for _, w := range fc.Within {
		p.Within = append(p.Within, solve.Within{Region: lookup("within", w.Region), Scope: lookup("within", w.Scope)})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("func %s: %w", fc.Name, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (fc *FuncConfig) buildFunc() (*mir.Func, error) {
	fn := &mir.Func{Name: fc.Name}
	var errs []error
	target := func(i int, what string, t *int) mir.BlockID {
		if *t < 0 || *t >= len(fc.Blocks) {
			errs = append(errs, fmt.Errorf("block %d: %s target %d does not exist", i, what, *t))
			return mir.NoBlockID
		}
		return mir.BlockID(*t) //nolint:gosec // bounded by block count
	}
	for i, bc := range fc.Blocks {
		id := fn.NewBlock()
		bb := &fn.Blocks[id]
		for _, s := range bc.Statements {
			bb.Stmts = append(bb.Stmts, mir.Stmt{Text: s})
		}

		n := 0
		if bc.Goto != nil {
			n++
			bb.Term = mir.Terminator{Kind: mir.TermGoto, Goto: mir.GotoTerm{Target: target(i, "goto", bc.Goto)}}
		}
		if bc.Then != nil || bc.Else != nil {
			n++
			if bc.Then == nil || bc.Else == nil {
				errs = append(errs, fmt.Errorf("block %d: if needs both then and else", i))
				continue
			}
			bb.Term = mir.Terminator{Kind: mir.TermIf, If: mir.IfTerm{
				Then: target(i, "then", bc.Then),
				Else: target(i, "else", bc.Else),
			}}
		}
		if bc.Return {
			n++
			bb.Term = mir.Terminator{Kind: mir.TermReturn}
		}
		if bc.Unreachable {
			n++
			bb.Term = mir.Terminator{Kind: mir.TermUnreachable}
		}
		if n != 1 {
			errs = append(errs, fmt.Errorf("block %d: want exactly one terminator (goto, then/else, return, unreachable), got %d", i, n))
		}
	}
	return fn, errors.Join(errs...)
}
