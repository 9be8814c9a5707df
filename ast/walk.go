package ast

// WalkIfs visits every conditional in the block and all nested blocks
// bottom-up: a conditional is visited after all the conditionals within its
// arms.  Nested function bodies are not part of the walk.
func WalkIfs(block *Block, visit func(ifs *IfStmt) error) error {
	if block == nil {
		return nil
	}

	for _, stmt := range block.Stmts {
		if ifs, ok := stmt.(*IfStmt); ok {
			if err := WalkIfs(ifs.Body, visit); err != nil {
				return err
			}

			if err := WalkIfs(ifs.ElseBranch, visit); err != nil {
				return err
			}

			if err := visit(ifs); err != nil {
				return err
			}
		}
	}

	return nil
}

// WalkBlocks visits every block nested within the given block, including the
// block itself, parents before children.
func WalkBlocks(block *Block, visit func(b *Block)) {
	if block == nil {
		return
	}

	visit(block)

	for _, stmt := range block.Stmts {
		if ifs, ok := stmt.(*IfStmt); ok {
			WalkBlocks(ifs.Body, visit)
			WalkBlocks(ifs.ElseBranch, visit)
		}
	}
}

// ChainHeads returns the head of every logical conditional chain in the block
// and its nested blocks in pre-order.  Chained conditionals (`elif` arms) are
// never heads.
func ChainHeads(block *Block) []*IfStmt {
	var heads []*IfStmt

	var collect func(b *Block)
	collect = func(b *Block) {
		if b == nil {
			return
		}

		for _, stmt := range b.Stmts {
			ifs, ok := stmt.(*IfStmt)
			if !ok {
				continue
			}

			if !ifs.Chained {
				heads = append(heads, ifs)
			}

			collect(ifs.Body)
			collect(ifs.ElseBranch)
		}
	}

	collect(block)
	return heads
}
