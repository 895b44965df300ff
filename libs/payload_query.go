package libs

import (
	"fmt"
	"net/url"
	"strconv"
)

// Query builds Payload's bracketed query string, e.g.
// where[code][equals]=SUMMER&where[active][equals]=true&limit=1.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

func (q *Query) Where(field, operator string, value interface{}) *Query {
	q.values.Set(fmt.Sprintf("where[%s][%s]", field, operator), formatValue(value))
	return q
}

func (q *Query) Equals(field string, value interface{}) *Query {
	return q.Where(field, "equals", value)
}

func (q *Query) Like(field, value string) *Query {
	return q.Where(field, "like", value)
}

func (q *Query) Limit(n int) *Query {
	q.values.Set("limit", strconv.Itoa(n))
	return q
}

func (q *Query) Page(n int) *Query {
	q.values.Set("page", strconv.Itoa(n))
	return q
}

func (q *Query) Depth(n int) *Query {
	q.values.Set("depth", strconv.Itoa(n))
	return q
}

func (q *Query) Sort(field string) *Query {
	q.values.Set("sort", field)
	return q
}

func (q *Query) Values() url.Values {
	out := make(url.Values, len(q.values))
	for k, v := range q.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
