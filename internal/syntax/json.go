package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return map[string]interface{}{
			"type":  "File",
			"pos":   n.pos.String(),
			"stmts": stmtsJSON(n.Stmts),
		}

	case *AssignStmt:
		return map[string]interface{}{
			"type":  "AssignStmt",
			"pos":   n.pos.String(),
			"name":  n.LHS.Value,
			"value": toJSON(n.RHS),
		}

	case *PrintStmt:
		return map[string]interface{}{
			"type": "PrintStmt",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *IfStmt:
		return map[string]interface{}{
			"type": "IfStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": stmtsJSON(n.Then),
			"else": stmtsJSON(n.Else),
		}

	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *NumberLit:
		return map[string]interface{}{
			"type":  "NumberLit",
			"pos":   n.pos.String(),
			"text":  n.Text,
			"value": n.Value,
		}

	case *Operation:
		return map[string]interface{}{
			"type": "Operation",
			"pos":  n.pos.String(),
			"op":   string(n.Op),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}
	}

	return map[string]interface{}{"type": "unknown"}
}

// stmtsJSON always returns a non-nil slice so empty branches encode as [].
func stmtsJSON(list []Stmt) []interface{} {
	out := make([]interface{}, 0, len(list))
	for _, s := range list {
		out = append(out, toJSON(s))
	}
	return out
}
