package esquery

import "fmt"

// Paths of the two clause lists inside a composed document.
const (
	pathQueryParts  = "bool.must"
	pathFilterParts = "bool.filter.bool.must"
)

// parseDocument extracts the query and filter clauses of a composed document.
func parseDocument(raw Document) (queryParts, filterParts []Clause, err error) {
	boolBody, ok := asDocument(raw["bool"])
	if !ok {
		return nil, nil, &MalformedDocumentError{Path: "bool"}
	}
	queryParts, err = clauseList(boolBody, "must", pathQueryParts)
	if err != nil {
		return nil, nil, err
	}

	filter, ok := asDocument(boolBody["filter"])
	if !ok {
		return nil, nil, &MalformedDocumentError{Path: "bool.filter"}
	}
	filterBool, ok := asDocument(filter["bool"])
	if !ok {
		return nil, nil, &MalformedDocumentError{Path: "bool.filter.bool"}
	}
	filterParts, err = clauseList(filterBool, "must", pathFilterParts)
	if err != nil {
		return nil, nil, err
	}
	return queryParts, filterParts, nil
}

// clauseList reads parent[key] as a list of clause documents. A null list is empty.
func clauseList(parent Document, key, path string) ([]Clause, error) {
	v, present := parent[key]
	if !present {
		return nil, &MalformedDocumentError{Path: path}
	}

	var items []any
	switch list := v.(type) {
	case nil:
		return []Clause{}, nil
	case []any:
		items = list
	case []Document:
		items = make([]any, len(list))
		for i, d := range list {
			items[i] = d
		}
	case []Clause:
		items = make([]any, len(list))
		for i, c := range list {
			items[i] = c
		}
	default:
		return nil, &MalformedDocumentError{Path: path}
	}

	out := make([]Clause, 0, len(items))
	for i, item := range items {
		if c, ok := item.(Clause); ok {
			if _, err := c.Source(); err != nil {
				return nil, &MalformedDocumentError{Path: fmt.Sprintf("%s[%d]", path, i)}
			}
			out = append(out, c)
			continue
		}
		body, ok := asDocument(item)
		if !ok {
			return nil, &MalformedDocumentError{Path: fmt.Sprintf("%s[%d]", path, i)}
		}
		out = append(out, Raw{Body: copyDocument(body)})
	}
	return out, nil
}

func asDocument(v any) (Document, bool) {
	d, ok := v.(map[string]any)
	return d, ok
}

// copyDocument deep-copies the maps and slices of d. Scalars are shared.
func copyDocument(d Document) Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyDocument(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = copyValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(x))
		for i, item := range x {
			out[i] = copyDocument(item)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	default:
		return v
	}
}
