package sqlite

import (
	"fmt"
	"strings"

	"github.com/madrasahweb/site/internal/services/web/content"
)

const publishedSource = `SELECT id, doc FROM documents WHERE substr(id, 1, 7) <> 'drafts.'`

// previewSource exposes drafts under their published id and hides the
// published revision they replace.
const previewSource = `SELECT
    CASE WHEN substr(d.id, 1, 7) = 'drafts.' THEN substr(d.id, 8) ELSE d.id END AS id,
    CASE WHEN substr(d.id, 1, 7) = 'drafts.'
        THEN json_set(d.doc, '$._id', substr(d.id, 8), '$._originalId', d.id)
        ELSE d.doc END AS doc
  FROM documents d
  WHERE substr(d.id, 1, 7) = 'drafts.'
     OR NOT EXISTS (SELECT 1 FROM documents x WHERE x.id = 'drafts.' || d.id)`

type statement struct {
	SQL  string
	Args []any
}

// render builds the SQL for q under perspective.
func render(q content.Query, perspective content.Perspective) (statement, error) {
	if err := q.Validate(); err != nil {
		return statement{}, err
	}
	source := publishedSource
	if perspective == content.PerspectivePreviewDrafts {
		source = previewSource
	}

	args := []any{q.Type}
	clauses := []string{"json_extract(doc, '$._type') = ?"}
	for _, f := range q.Filters {
		clause, filterArgs, err := renderFilter(f)
		if err != nil {
			return statement{}, err
		}
		clauses = append(clauses, clause)
		args = append(args, filterArgs...)
	}

	var b strings.Builder
	b.WriteString("SELECT doc FROM (")
	b.WriteString(source)
	b.WriteString(") WHERE ")
	b.WriteString(strings.Join(clauses, " AND "))
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, fmt.Sprintf("%s %s", jsonPath(o.Field), dir))
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(", id ASC")
	} else {
		b.WriteString(" ORDER BY id ASC")
	}
	switch {
	case q.Single:
		b.WriteString(" LIMIT 1")
	case q.Limit > 0:
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}
	return statement{SQL: b.String(), Args: args}, nil
}

func renderFilter(f content.Filter) (string, []any, error) {
	switch f.Op {
	case content.OpEq:
		return jsonPath(f.Field) + " = ?", []any{sqlValue(f.Value)}, nil
	case content.OpGte:
		return jsonPath(f.Field) + " >= ?", []any{sqlValue(f.Value)}, nil
	case content.OpMatch:
		return "instr(lower(" + jsonPath(f.Field) + "), lower(?)) > 0", []any{f.Value}, nil
	case content.OpAny:
		parts := make([]string, 0, len(f.Any))
		var args []any
		for _, sub := range f.Any {
			clause, subArgs, err := renderFilter(sub)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, clause)
			args = append(args, subArgs...)
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil
	default:
		return "", nil, fmt.Errorf("filter op %q is unsupported", f.Op)
	}
}

// jsonPath expects a field already checked by content.ValidField.
func jsonPath(field string) string {
	return "json_extract(doc, '$." + field + "')"
}

// sqlValue matches json_extract's representation of JSON booleans.
func sqlValue(value any) any {
	if b, ok := value.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return value
}
