// Package query turns list-endpoint query strings into store filters.
//
//	GET /bootcamps?careers[in]=Business,Other&averageCost[lte]=10000&select=name,careers&sort=-name&page=2&limit=5
//
// yields the filter {careers: {$in: [Business Other]}, averageCost: {$lte: 10000}},
// a projection of name and careers, a descending sort on name, skip 5 and limit 5.
package query

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	DefaultSort  = "-createdAt"
)

var reserved = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}

var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

var (
	paramKey  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)(?:\[([A-Za-z]+)\])?$`)
	objectHex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

type Query struct {
	Filter bson.M
	Select []string
	Sort   bson.D
	Page   int
	Limit  int // 0 means unlimited
}

// Skip is the number of records before the requested page.
func (q Query) Skip() int {
	return (q.Page - 1) * q.Limit
}

// Projection returns the store projection for Select, or nil for all fields.
func (q Query) Projection() bson.M {
	if len(q.Select) == 0 {
		return nil
	}
	p := bson.M{}
	for _, f := range q.Select {
		p[f] = 1
	}
	return p
}

// Where returns a copy of q whose filter also requires key == value.
func (q Query) Where(key string, value any) Query {
	f := bson.M{}
	for k, v := range q.Filter {
		f[k] = v
	}
	f[key] = value
	q.Filter = f
	return q
}

// New returns an unfiltered first page with the default limit and sort.
func New() Query {
	sort, _ := parseSort(DefaultSort)
	return Query{Filter: bson.M{}, Sort: sort, Page: DefaultPage, Limit: DefaultLimit}
}

// Parse translates query parameters. Operands are converted to the kind
// fields records for their path; paths fields does not know, or a nil
// fields, get their type guessed from the text. When a parameter repeats,
// the last value wins.
func Parse(values map[string][]string, fields Fields) (Query, error) {
	q := New()

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		raw := vals[len(vals)-1]

		if reserved[key] {
			if err := q.applyReserved(key, raw); err != nil {
				return Query{}, err
			}
			continue
		}

		m := paramKey.FindStringSubmatch(key)
		if m == nil {
			return Query{}, errs.E(errs.ErrValidation, "invalid query parameter %q", key)
		}
		field, op := m[1], m[2]
		kind := fields[field]
		if kind == KindHidden {
			return Query{}, errs.E(errs.ErrValidation, "invalid query parameter %q", key)
		}
		if op == "" {
			v, err := coerce(field, kind, raw)
			if err != nil {
				return Query{}, err
			}
			if existing, ok := q.Filter[field].(bson.M); ok {
				existing["$eq"] = v
				continue
			}
			q.Filter[field] = v
			continue
		}

		storeOp, ok := operators[op]
		if !ok {
			return Query{}, errs.E(errs.ErrValidation, "unsupported operator %q on %s", op, field)
		}
		var (
			v   any
			err error
		)
		if op == "in" {
			v, err = coerceList(field, kind, raw)
		} else {
			v, err = coerce(field, kind, raw)
		}
		if err != nil {
			return Query{}, err
		}
		cond, ok := q.Filter[field].(bson.M)
		if !ok {
			cond = bson.M{}
			if eq, exists := q.Filter[field]; exists {
				cond["$eq"] = eq
			}
			q.Filter[field] = cond
		}
		cond[storeOp] = v
	}
	if q.Limit > 0 && q.Page > math.MaxInt/q.Limit {
		return Query{}, errs.E(errs.ErrValidation, "page is out of range")
	}
	return q, nil
}

func (q *Query) applyReserved(key, raw string) error {
	switch key {
	case "select":
		q.Select = splitFields(raw)
	case "sort":
		sort, err := parseSort(raw)
		if err != nil {
			return err
		}
		if len(sort) > 0 {
			q.Sort = sort
		}
	case "page":
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return errs.E(errs.ErrValidation, "page must be a positive integer")
		}
		q.Page = n
	case "limit":
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return errs.E(errs.ErrValidation, "limit must be a non-negative integer")
		}
		q.Limit = n
	}
	return nil
}

func parseSort(raw string) (bson.D, error) {
	var sort bson.D
	for _, f := range splitFields(raw) {
		dir := 1
		if name, ok := strings.CutPrefix(f, "-"); ok {
			f, dir = name, -1
		}
		if !paramKey.MatchString(f) || strings.Contains(f, "[") {
			return nil, errs.E(errs.ErrValidation, "invalid sort field %q", f)
		}
		sort = append(sort, bson.E{Key: f, Value: dir})
	}
	return sort, nil
}

// splitFields accepts comma or space separated field lists.
func splitFields(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
}

func coerceList(field string, kind Kind, raw string) (bson.A, error) {
	out := bson.A{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := coerce(field, kind, part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// coerce converts query text into the operand type stored for the field.
func coerce(field string, kind Kind, raw string) (any, error) {
	switch kind {
	case KindString:
		return raw, nil
	case KindNumber:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
		return nil, errs.E(errs.ErrValidation, "%s must be a number", field)
	case KindBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b, nil
		}
		return nil, errs.E(errs.ErrValidation, "%s must be true or false", field)
	case KindObjectID:
		if id, err := bson.ObjectIDFromHex(raw); err == nil {
			return id, nil
		}
		return nil, errs.E(errs.ErrValidation, "%s must be an object id", field)
	case KindTime:
		for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC(), nil
			}
		}
		return nil, errs.E(errs.ErrValidation, "%s must be a date", field)
	}
	return guess(raw), nil
}

// guess picks an operand type for fields of unknown kind: object ids,
// integers, floats and booleans. Anything else stays a string.
func guess(raw string) any {
	if objectHex.MatchString(raw) {
		if id, err := bson.ObjectIDFromHex(raw); err == nil {
			return id
		}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}

// Project reduces encoded records to the selected top-level fields. The id
// is always kept. With no selection the records are returned unchanged.
func Project[T any](items []T, fields []string) ([]any, error) {
	out := make([]any, 0, len(items))
	if len(fields) == 0 {
		for _, it := range items {
			out = append(out, it)
		}
		return out, nil
	}
	keep := map[string]bool{"id": true}
	for _, f := range fields {
		keep[strings.SplitN(f, ".", 2)[0]] = true
	}
	for _, it := range items {
		b, err := json.Marshal(it)
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, err
		}
		for k := range m {
			if !keep[k] {
				delete(m, k)
			}
		}
		out = append(out, m)
	}
	return out, nil
}
