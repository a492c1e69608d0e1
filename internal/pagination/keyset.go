package pagination

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Direction is the sort direction of a paginated collection. It is
// applied to the sort key and the id tie-break identically; ordering
// them in opposite directions would break the resume predicate.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ErrInvalidDirection reports an orderBy value other than asc/desc.
var ErrInvalidDirection = errors.New("invalid sort direction")

// ParseDirection validates an orderBy query parameter, substituting the
// collection default when absent.
func ParseDirection(s string, def Direction) (Direction, error) {
	switch Direction(s) {
	case "":
		return def, nil
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func (d Direction) cmp() string {
	if d == Asc {
		return ">"
	}
	return "<"
}

func (d Direction) keyword() string {
	if d == Asc {
		return "ASC"
	}
	return "DESC"
}

// Keyset returns a scope adding the resume condition for a time-keyed
// cursor:
//
//	created_at < ? OR (created_at = ? AND id < ?)   -- desc
//
// with both comparisons inverted for asc. The predicate is monotonic
// under concurrent inserts: rows created after the cursor was issued
// sort strictly before it (desc) and never surface in resumed pages.
// A nil cursor leaves the query untouched (first page).
func Keyset(table string, dir Direction, cur *Cursor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cur == nil {
			return db
		}
		op := dir.cmp()
		cond := fmt.Sprintf(
			"%[1]s.created_at %[2]s ? OR (%[1]s.created_at = ? AND %[1]s.id %[2]s ?)",
			table, op,
		)
		return db.Where(cond, cur.CreatedAt, cur.CreatedAt, cur.ID)
	}
}

// OrderBy returns a scope establishing the strict total order
// (created_at, id), both keys in the same direction.
func OrderBy(table string, dir Direction) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		kw := dir.keyword()
		return db.Order(fmt.Sprintf("%[1]s.created_at %[2]s, %[1]s.id %[2]s", table, kw))
	}
}

// KeysetByScore returns the resume condition for an aggregate-ranked
// cursor. scoreExpr must be the exact SQL expression used in the ORDER
// BY clause (a correlated COUNT subquery); computing the two from
// different expressions silently desynchronizes the cursor from the
// displayed order.
func KeysetByScore(table, scoreExpr string, dir Direction, cur *ScoreCursor) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if cur == nil {
			return db
		}
		op := dir.cmp()
		cond := fmt.Sprintf(
			"(%[1]s) %[2]s ? OR ((%[1]s) = ? AND %[3]s.id %[2]s ?)",
			scoreExpr, op, table,
		)
		return db.Where(cond, cur.Score, cur.Score, cur.ID)
	}
}

// OrderByScore returns a scope ordering by the aggregate expression
// with id as tie-break, both in the same direction.
func OrderByScore(table, scoreExpr string, dir Direction) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		kw := dir.keyword()
		return db.Order(fmt.Sprintf("(%s) %s, %s.id %s", scoreExpr, kw, table, kw))
	}
}
