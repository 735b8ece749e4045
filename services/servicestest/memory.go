// Package servicestest provides in-memory repositories for exercising the
// services and HTTP handlers without a MongoDB server.
package servicestest

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/query"
	"github.com/ZacIsrael/dev-camper-api/services"
)

var (
	_ services.UserRepository              = (*Collection[models.User])(nil)
	_ services.Repository[models.Bootcamp] = (*Collection[models.Bootcamp])(nil)
	_ services.Repository[models.Course]   = (*Collection[models.Course])(nil)
	_ services.Repository[models.Review]   = (*Collection[models.Review])(nil)
)

// Collection keeps documents in their encoded form and evaluates the subset
// of the query language the services use: equality, $eq, $ne, $gt, $gte,
// $lt, $lte, $in, $exists and $geoWithin with $centerSphere.
type Collection[T any] struct {
	mu     sync.Mutex
	docs   []bson.M
	hidden []string
	unique [][]string
}

func NewCollection[T any](hidden ...string) *Collection[T] {
	return &Collection[T]{hidden: hidden}
}

// Unique emulates a unique index over fields.
func (c *Collection[T]) Unique(fields ...string) *Collection[T] {
	c.unique = append(c.unique, fields)
	return c
}

// Len reports how many documents are stored.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func (c *Collection[T]) List(ctx context.Context, q query.Query) ([]T, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched, err := c.match(q.Filter)
	if err != nil {
		return nil, 0, err
	}
	sortDocs(matched, q.Sort)

	total := int64(len(matched))
	skip := q.Skip()
	if skip > len(matched) {
		skip = len(matched)
	}
	matched = matched[skip:]
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	items, err := c.decodeAll(matched, true)
	return items, total, err
}

func (c *Collection[T]) Find(ctx context.Context, filter bson.M) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched, err := c.match(filter)
	if err != nil {
		return nil, err
	}
	return c.decodeAll(matched, true)
}

func (c *Collection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	return c.findOne(filter, true)
}

func (c *Collection[T]) FindOneWithHidden(ctx context.Context, filter bson.M) (*T, error) {
	return c.findOne(filter, false)
}

func (c *Collection[T]) findOne(filter bson.M, hide bool) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched, err := c.match(filter)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, errs.E(errs.ErrNotFound, "Resource not found")
	}
	return c.decode(matched[0], hide)
}

func (c *Collection[T]) FindByID(ctx context.Context, id bson.ObjectID) (*T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	m, err := encode(doc)
	if err != nil {
		return err
	}
	if _, ok := m["_id"]; !ok {
		return fmt.Errorf("servicestest: document has no _id")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkUnique(m, nil); err != nil {
		return err
	}
	c.docs = append(c.docs, m)
	return nil
}

func (c *Collection[T]) UpdateByID(ctx context.Context, id bson.ObjectID, set bson.M, unset ...string) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, errs.E(errs.ErrNotFound, "Resource not found")
	}
	updated := bson.M{}
	for k, v := range c.docs[i] {
		updated[k] = v
	}
	for k, v := range set {
		enc, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		updated[k] = enc
	}
	for _, k := range unset {
		delete(updated, k)
	}
	if err := c.checkUnique(updated, c.docs[i]); err != nil {
		return nil, err
	}
	c.docs[i] = updated
	return c.decode(updated, true)
}

func (c *Collection[T]) DeleteByID(ctx context.Context, id bson.ObjectID) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, errs.E(errs.ErrNotFound, "Resource not found")
	}
	doc := c.docs[i]
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return c.decode(doc, true)
}

func (c *Collection[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.docs[:0:0]
	var n int64
	for _, d := range c.docs {
		ok, err := matches(d, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
			continue
		}
		kept = append(kept, d)
	}
	c.docs = kept
	return n, nil
}

func (c *Collection[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched, err := c.match(filter)
	return int64(len(matched)), err
}

func (c *Collection[T]) Average(ctx context.Context, filter bson.M, field string) (float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched, err := c.match(filter)
	if err != nil {
		return 0, false, err
	}
	var sum float64
	var n int
	for _, d := range matched {
		v, ok := lookup(d, field)
		if !ok {
			continue
		}
		if f, ok := toFloat(v); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return sum / float64(n), true, nil
}

func (c *Collection[T]) indexOf(id bson.ObjectID) int {
	for i, d := range c.docs {
		if d["_id"] == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) match(filter bson.M) ([]bson.M, error) {
	out := make([]bson.M, 0)
	for _, d := range c.docs {
		ok, err := matches(d, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *Collection[T]) checkUnique(doc bson.M, self bson.M) error {
	for _, fields := range c.unique {
		for _, other := range c.docs {
			if self != nil && other["_id"] == self["_id"] {
				continue
			}
			same := true
			for _, f := range fields {
				a, aok := lookup(doc, f)
				b, bok := lookup(other, f)
				if !aok || !bok || !equal(a, b) {
					same = false
					break
				}
			}
			if same {
				return errs.E(errs.ErrConflict, "Duplicate field value entered for %s", strings.Join(fields, ", "))
			}
		}
	}
	return nil
}

func (c *Collection[T]) decodeAll(docs []bson.M, hide bool) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		it, err := c.decode(d, hide)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, nil
}

func (c *Collection[T]) decode(doc bson.M, hide bool) (*T, error) {
	src := doc
	if hide && len(c.hidden) > 0 {
		src = bson.M{}
		for k, v := range doc {
			src[k] = v
		}
		for _, f := range c.hidden {
			delete(src, f)
		}
	}
	b, err := bson.Marshal(src)
	if err != nil {
		return nil, err
	}
	var it T
	if err := bson.Unmarshal(b, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func encode(v any) (bson.M, error) {
	b, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// encodeValue stores v the way it would come back from the store.
func encodeValue(v any) (any, error) {
	m, err := encode(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return m["v"], nil
}

func matches(doc bson.M, filter bson.M) (bool, error) {
	for key, cond := range filter {
		val, present := lookup(doc, key)
		ops, isOps := operatorDoc(cond)
		if !isOps {
			if !present || !equalOrContains(val, cond) {
				return false, nil
			}
			continue
		}
		for op, arg := range ops {
			ok, err := apply(op, val, present, arg)
			if err != nil || !ok {
				return false, err
			}
		}
	}
	return true, nil
}

func operatorDoc(cond any) (bson.M, bool) {
	m, ok := cond.(bson.M)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func apply(op string, val any, present bool, arg any) (bool, error) {
	switch op {
	case "$eq":
		return present && equalOrContains(val, arg), nil
	case "$ne":
		return !present || !equalOrContains(val, arg), nil
	case "$exists":
		want, _ := arg.(bool)
		return present == want, nil
	case "$in":
		if !present {
			return false, nil
		}
		for _, candidate := range asSlice(arg) {
			if equalOrContains(val, candidate) {
				return true, nil
			}
		}
		return false, nil
	case "$gt", "$gte", "$lt", "$lte":
		if !present {
			return false, nil
		}
		for _, v := range elements(val) {
			cmp, ok := compare(v, arg)
			if !ok {
				continue
			}
			if (op == "$gt" && cmp > 0) || (op == "$gte" && cmp >= 0) ||
				(op == "$lt" && cmp < 0) || (op == "$lte" && cmp <= 0) {
				return true, nil
			}
		}
		return false, nil
	case "$geoWithin":
		return geoWithin(val, present, arg)
	}
	return false, fmt.Errorf("servicestest: unsupported operator %s", op)
}

// geoWithin handles {$centerSphere: [[lng, lat], radians]} against a GeoJSON point.
func geoWithin(val any, present bool, arg any) (bool, error) {
	spec, ok := arg.(bson.M)
	if !ok {
		return false, fmt.Errorf("servicestest: unsupported $geoWithin")
	}
	sphere := asSlice(spec["$centerSphere"])
	if len(sphere) != 2 {
		return false, fmt.Errorf("servicestest: $centerSphere needs center and radius")
	}
	center := asSlice(sphere[0])
	radius, _ := toFloat(sphere[1])
	if !present || len(center) != 2 {
		return false, nil
	}
	coords, ok := lookupIn(val, "coordinates")
	if !ok {
		return false, nil
	}
	point := asSlice(coords)
	if len(point) != 2 {
		return false, nil
	}
	lng1, _ := toFloat(center[0])
	lat1, _ := toFloat(center[1])
	lng2, _ := toFloat(point[0])
	lat2, _ := toFloat(point[1])
	return angularDistance(lat1, lng1, lat2, lng2) <= radius, nil
}

func angularDistance(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func lookup(doc bson.M, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		next, ok := lookupIn(cur, part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func lookupIn(v any, key string) (any, bool) {
	switch d := v.(type) {
	case bson.M:
		x, ok := d[key]
		return x, ok
	case bson.D:
		for _, e := range d {
			if e.Key == key {
				return e.Value, true
			}
		}
	}
	return nil, false
}

func asSlice(v any) []any {
	switch s := v.(type) {
	case bson.A:
		return s
	case []any:
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if _, isID := v.(bson.ObjectID); isID {
			return []any{v}
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}

// elements yields the members of an array value, or the value itself.
func elements(v any) []any {
	if _, ok := v.(bson.A); ok {
		return asSlice(v)
	}
	return []any{v}
}

func equalOrContains(val, want any) bool {
	for _, v := range elements(val) {
		if equal(v, want) {
			return true
		}
	}
	return false
}

func equal(a, b any) bool {
	if cmp, ok := compare(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	switch x := v.(type) {
	case bson.DateTime:
		return x.Time()
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case *float64:
		if n != nil {
			return *n, true
		}
	}
	return 0, false
}

func compare(a, b any) (int, bool) {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	return 0, false
}

func sortDocs(docs []bson.M, order bson.D) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, e := range order {
			dir, _ := toFloat(e.Value)
			a, _ := lookup(docs[i], e.Key)
			b, _ := lookup(docs[j], e.Key)
			cmp, ok := compare(a, b)
			if !ok || cmp == 0 {
				continue
			}
			if dir < 0 {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
