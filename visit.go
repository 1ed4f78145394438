package onia

// A Visitor is called for each parser in a grammar.
//
// Calling next visits the children of p. Returning an error aborts the walk.
type Visitor func(p Parser, next func() error) error

// Visit walks the grammar rooted at p depth-first, following Export().
//
// Each parser is visited at most once, so recursive grammars built with Lazy terminate.
// Note that visiting a Lazy parser constructs its child.
func Visit(p Parser, visitor Visitor) error {
	return visit(map[Parser]bool{}, p, visitor)
}

func visit(seen map[Parser]bool, p Parser, visitor Visitor) error {
	if p == nil || seen[p] {
		return nil
	}
	seen[p] = true
	return visitor(p, func() error {
		for _, child := range p.Export() {
			if err := visit(seen, child, visitor); err != nil {
				return err
			}
		}
		return nil
	})
}
