package syntax

// CollectVariables returns the names assigned anywhere in stmts, in order of
// first occurrence in a depth-first, left-to-right reading and without
// duplicates. Assignments nested in if branches are included. The result is
// nil when nothing is assigned.
func CollectVariables(stmts []Stmt) []string {
	var names []string
	seen := make(map[string]bool)

	for _, s := range stmts {
		Inspect(s, func(n Node) bool {
			if a, ok := n.(*AssignStmt); ok && !seen[a.LHS.Value] {
				seen[a.LHS.Value] = true
				names = append(names, a.LHS.Value)
			}
			return true
		})
	}
	return names
}
