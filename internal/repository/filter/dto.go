package filter

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/esquery"
)

const (
	hashSearchHandle = "search_handle"
	hashESFilterType = "es_filter_type"
	hashFieldHandle  = "field_handle"
	hashSortByScore  = "sort_by_score"
)

// definitionToHash converts a FilterDefinition to a map for HSET.
func definitionToHash(def esquery.FilterDefinition) map[string]string {
	return map[string]string{
		hashSearchHandle: def.SearchHandle,
		hashESFilterType: def.ESFilterType,
		hashFieldHandle:  def.FieldHandle,
		hashSortByScore:  strconv.FormatBool(def.SortByScore),
	}
}

// definitionFromHash hydrates a FilterDefinition from an HGETALL result map.
// Stored definitions are validated again so a hand-edited hash cannot reach the registry.
func definitionFromHash(m map[string]string) (esquery.FilterDefinition, error) {
	def := esquery.FilterDefinition{
		SearchHandle: m[hashSearchHandle],
		ESFilterType: m[hashESFilterType],
		FieldHandle:  m[hashFieldHandle],
	}
	if v := m[hashSortByScore]; v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return esquery.FilterDefinition{}, fmt.Errorf("invalid %s: %w", hashSortByScore, err)
		}
		def.SortByScore = b
	}
	if err := def.Validate(); err != nil {
		return esquery.FilterDefinition{}, err
	}
	return def, nil
}
