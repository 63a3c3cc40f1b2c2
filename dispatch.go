package esquery

import "fmt"

// Built-in verbs understood by Dispatcher.Call.
const (
	VerbSearchString         = "searchString"
	VerbSetSearchFields      = "setSearchFields"
	VerbSetSiteAnalyzer      = "setSiteAnalyzer"
	VerbParseQueryParameters = "parseQueryParameters"
)

// Dispatcher maps verb-style calls onto a QueryBuilder, for hosts (templates,
// query strings, scripting layers) that name filters as methods.
type Dispatcher struct {
	b *QueryBuilder
}

// NewDispatcher wraps b.
func NewDispatcher(b *QueryBuilder) *Dispatcher {
	return &Dispatcher{b: b}
}

// Builder returns the wrapped builder.
func (d *Dispatcher) Builder() *QueryBuilder { return d.b }

// Call runs verb with args and returns the composed document.
//
// Built-in verbs take precedence. Any other verb is resolved against the
// registry and applied as a filter: one argument is the comparison value,
// several are forwarded as a single []any value. A verb that is neither
// fails with *NoSuchOperationError.
func (d *Dispatcher) Call(verb string, args ...any) (Document, error) {
	switch verb {
	case VerbSearchString:
		s, err := stringArg(verb, args)
		if err != nil {
			return nil, err
		}
		return d.b.AddTextSearch(s), nil

	case VerbSetSearchFields:
		fields, err := stringsArg(verb, args)
		if err != nil {
			return nil, err
		}
		return d.b.SetSearchFields(fields).Compose(), nil

	case VerbSetSiteAnalyzer:
		s, err := stringArg(verb, args)
		if err != nil {
			return nil, err
		}
		return d.b.SetSiteAnalyzer(s).Compose(), nil

	case VerbParseQueryParameters:
		if len(args) != 1 {
			return nil, argError(verb, "exactly one document")
		}
		raw, ok := asDocument(args[0])
		if !ok {
			return nil, argError(verb, "a document")
		}
		return d.b.ParseQueryParameters(raw)
	}

	if _, ok := d.b.registry.Lookup(verb); !ok {
		return nil, &NoSuchOperationError{Verb: verb}
	}

	var value any
	switch len(args) {
	case 0:
		return nil, argError(verb, "a filter value")
	case 1:
		value = args[0]
	default:
		value = append([]any(nil), args...)
	}
	return d.b.ApplyFilter(verb, value)
}

func stringArg(verb string, args []any) (string, error) {
	if len(args) != 1 {
		return "", argError(verb, "exactly one string")
	}
	s, ok := args[0].(string)
	if !ok {
		return "", argError(verb, "a string")
	}
	return s, nil
}

// stringsArg accepts either one []string or a list of strings.
func stringsArg(verb string, args []any) ([]string, error) {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case []string:
			return v, nil
		case []any:
			args = v
		}
	}
	out := make([]string, len(args))
	for i, a := range args {
		s, ok := a.(string)
		if !ok {
			return nil, argError(verb, "string field names")
		}
		out[i] = s
	}
	return out, nil
}

func argError(verb, want string) error {
	return fmt.Errorf("%s: expected %s: %w", verb, want, ErrInvalidArgument)
}
