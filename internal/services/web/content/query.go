package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Perspective selects which document revisions a read sees.
type Perspective string

const (
	// PerspectivePublished hides drafts.
	PerspectivePublished Perspective = "published"
	// PerspectivePreviewDrafts lets a draft replace its published
	// counterpart and exposes draft-only documents.
	PerspectivePreviewDrafts Perspective = "previewDrafts"
)

// Source executes structured queries against a document store.
//
// For a Single query Fetch returns a JSON object or the literal null. For
// list queries it returns a JSON array, possibly empty.
type Source interface {
	Fetch(ctx context.Context, q Query, perspective Perspective) (json.RawMessage, error)
}

// Op is a filter operator.
type Op string

const (
	OpEq    Op = "eq"
	OpGte   Op = "gte"
	OpMatch Op = "match"
	OpAny   Op = "any"
)

// Filter constrains a dotted document field. OpAny ignores Field and Value
// and matches when any of Any matches.
type Filter struct {
	Field string   `json:"field,omitempty"`
	Op    Op       `json:"op"`
	Value any      `json:"value,omitempty"`
	Any   []Filter `json:"any,omitempty"`
}

// Eq matches documents whose field equals value.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Gte matches documents whose field is greater than or equal to value.
func Gte(field string, value any) Filter {
	return Filter{Field: field, Op: OpGte, Value: value}
}

// Match matches documents whose string field contains term, ignoring case.
func Match(field string, term string) Filter {
	return Filter{Field: field, Op: OpMatch, Value: term}
}

// AnyOf matches documents satisfying at least one filter.
func AnyOf(filters ...Filter) Filter {
	return Filter{Op: OpAny, Any: filters}
}

// Order sorts results by a dotted field.
type Order struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

// Asc sorts ascending by field.
func Asc(field string) Order { return Order{Field: field} }

// Desc sorts descending by field.
func Desc(field string) Order { return Order{Field: field, Desc: true} }

// Query is one read against a single document type.
type Query struct {
	Type    string   `json:"type"`
	Filters []Filter `json:"filters,omitempty"`
	Order   []Order  `json:"order,omitempty"`
	// Limit caps list results. Zero means unlimited.
	Limit  int  `json:"limit,omitempty"`
	Single bool `json:"single,omitempty"`
	// Tags label cached results for revalidation. Empty means the type.
	Tags []string `json:"tags,omitempty"`
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// ValidField reports whether field is a dotted identifier path safe to
// embed in a rendered query.
func ValidField(field string) bool {
	return fieldPattern.MatchString(field)
}

// Validate checks q before a Source renders it.
func (q Query) Validate() error {
	if !ValidField(q.Type) || strings.Contains(q.Type, ".") {
		return fmt.Errorf("query type %q is invalid", q.Type)
	}
	if q.Limit < 0 {
		return fmt.Errorf("query limit %d is negative", q.Limit)
	}
	for _, f := range q.Filters {
		if err := f.validate(); err != nil {
			return err
		}
	}
	for _, o := range q.Order {
		if !ValidField(o.Field) {
			return fmt.Errorf("order field %q is invalid", o.Field)
		}
	}
	return nil
}

func (f Filter) validate() error {
	switch f.Op {
	case OpAny:
		if len(f.Any) == 0 {
			return fmt.Errorf("any filter is empty")
		}
		for _, sub := range f.Any {
			if err := sub.validate(); err != nil {
				return err
			}
		}
		return nil
	case OpEq, OpGte, OpMatch:
		if !ValidField(f.Field) {
			return fmt.Errorf("filter field %q is invalid", f.Field)
		}
		switch f.Value.(type) {
		case string, bool, int, int64, float64:
		default:
			return fmt.Errorf("filter %s on %q has unsupported value %T", f.Op, f.Field, f.Value)
		}
		if f.Op == OpMatch {
			if _, ok := f.Value.(string); !ok {
				return fmt.Errorf("match filter on %q needs a string", f.Field)
			}
		}
		return nil
	default:
		return fmt.Errorf("filter op %q is unsupported", f.Op)
	}
}

// CacheTags returns the revalidation tags for q.
func (q Query) CacheTags() []string {
	if len(q.Tags) > 0 {
		return append([]string(nil), q.Tags...)
	}
	return []string{q.Type}
}

// Fingerprint identifies q for cache keys.
func (q Query) Fingerprint() string {
	payload, err := json.Marshal(q)
	if err != nil {
		payload = []byte(fmt.Sprintf("%#v", q))
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
