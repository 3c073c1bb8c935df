package table

import (
	"net/url"
	"strconv"
)

// BuildQuery translates table state into the server's query parameters:
//
//	page     1-based page number (Index + 1)
//	limit    page size
//	<key>    one parameter per active filter; text as-is, multi-select
//	         joined with commas, date ranges split into <key>From/<key>To
//	sortBy   sort field, passed through remap (server field names may
//	         differ from UI column keys)
//	sortOrder "asc" or "desc"
func BuildQuery(p Pagination, filters Filters, sort *Sort, remap map[string]string) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Index+1))
	q.Set("limit", strconv.Itoa(p.Size))

	for _, cf := range filters {
		switch v := cf.Value.(type) {
		case Text:
			q.Set(cf.Key, string(v))
		case MultiSelect:
			q.Set(cf.Key, v.join())
		case DateRange:
			if !v.From.IsZero() {
				q.Set(cf.Key+"From", v.From.Format(DateLayout))
			}
			if !v.To.IsZero() {
				q.Set(cf.Key+"To", v.To.Format(DateLayout))
			}
		}
	}

	if sort != nil {
		field := sort.Key
		if mapped, ok := remap[field]; ok {
			field = mapped
		}
		q.Set("sortBy", field)
		if sort.Desc {
			q.Set("sortOrder", "desc")
		} else {
			q.Set("sortOrder", "asc")
		}
	}

	return q
}
