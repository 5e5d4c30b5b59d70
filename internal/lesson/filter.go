// AngelaMos | 2026
// filter.go

package lesson

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter composes typed predicates into a mongo query document. All user
// text that ends up in a regex goes through regexp.QuoteMeta here and
// nowhere else.
type Filter struct {
	clauses bson.D
}

func NewFilter() *Filter {
	return &Filter{clauses: bson.D{}}
}

func (f *Filter) add(field string, value any) *Filter {
	for i, c := range f.clauses {
		if c.Key == field {
			f.clauses[i].Value = value
			return f
		}
	}
	f.clauses = append(f.clauses, bson.E{Key: field, Value: value})
	return f
}

func (f *Filter) Equals(field string, value any) *Filter {
	return f.add(field, value)
}

// EqualsFold matches the whole field case-insensitively.
func (f *Filter) EqualsFold(field, value string) *Filter {
	return f.add(field, primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(value) + "$",
		Options: "i",
	})
}

// Contains is a case-insensitive substring match. Blank input adds nothing.
func (f *Filter) Contains(field, value string) *Filter {
	value = strings.TrimSpace(value)
	if value == "" {
		return f
	}
	return f.add(field, primitive.Regex{
		Pattern: regexp.QuoteMeta(value),
		Options: "i",
	})
}

// Choice is Contains, except the sentinel "all" matches everything.
func (f *Filter) Choice(field, value string) *Filter {
	if strings.EqualFold(strings.TrimSpace(value), "all") {
		return f
	}
	return f.Contains(field, value)
}

func (f *Filter) Not(field string, value any) *Filter {
	return f.add(field, bson.D{{Key: "$ne", Value: value}})
}

func (f *Filter) BSON() bson.D {
	out := make(bson.D, len(f.clauses))
	copy(out, f.clauses)
	return out
}

// PublicCatalog always restricts to public free lessons before applying the
// caller's search, category and tone.
func PublicCatalog(q PublicQuery) *Filter {
	return NewFilter().
		EqualsFold("privacy", PrivacyPublic).
		EqualsFold("accessLevel", AccessFree).
		Contains("title", q.Search).
		Choice("category", q.Category).
		Choice("emotionalTone", q.Tone)
}

func sortSpec(sort string) bson.D {
	switch sort {
	case SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}}
	case SortMostSaved:
		return bson.D{
			{Key: "savedCount", Value: -1},
			{Key: "createdAt", Value: -1},
		}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
