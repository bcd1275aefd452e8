package sanity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/madrasahweb/site/internal/services/web/content"
)

// Rendered is a GROQ query with its JSON-encoded parameters.
type Rendered struct {
	Query  string
	Params map[string]string
}

// Render converts q into GROQ. Filter values become $pN parameters so no
// caller input is spliced into the query text.
func Render(q content.Query) (Rendered, error) {
	if err := q.Validate(); err != nil {
		return Rendered{}, err
	}
	r := renderer{params: map[string]string{}}
	clauses := []string{fmt.Sprintf("_type == %s", r.bind(q.Type))}
	for _, f := range q.Filters {
		clause, err := r.filter(f)
		if err != nil {
			return Rendered{}, err
		}
		clauses = append(clauses, clause)
	}

	var b strings.Builder
	b.WriteString("*[")
	b.WriteString(strings.Join(clauses, " && "))
	b.WriteString("]")
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, o.Field+" "+dir)
		}
		b.WriteString(" | order(")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	switch {
	case q.Single:
		b.WriteString("[0]")
	case q.Limit > 0:
		fmt.Fprintf(&b, "[0...%d]", q.Limit)
	}
	return Rendered{Query: b.String(), Params: r.params}, nil
}

type renderer struct {
	params map[string]string
}

func (r *renderer) bind(value any) string {
	name := fmt.Sprintf("p%d", len(r.params))
	encoded, err := json.Marshal(value)
	if err != nil {
		encoded = []byte("null")
	}
	r.params[name] = string(encoded)
	return "$" + name
}

func (r *renderer) filter(f content.Filter) (string, error) {
	switch f.Op {
	case content.OpEq:
		return fmt.Sprintf("%s == %s", f.Field, r.bind(f.Value)), nil
	case content.OpGte:
		return fmt.Sprintf("%s >= %s", f.Field, r.bind(f.Value)), nil
	case content.OpMatch:
		term, _ := f.Value.(string)
		return fmt.Sprintf("%s match %s", f.Field, r.bind("*"+term+"*")), nil
	case content.OpAny:
		parts := make([]string, 0, len(f.Any))
		for _, sub := range f.Any {
			clause, err := r.filter(sub)
			if err != nil {
				return "", err
			}
			parts = append(parts, clause)
		}
		return "(" + strings.Join(parts, " || ") + ")", nil
	default:
		return "", fmt.Errorf("filter op %q is unsupported", f.Op)
	}
}
