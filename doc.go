// Package esquery composes Elasticsearch bool queries from independently added
// clauses: free-text multi_match queries, structural filters and filters
// registered at runtime under a search handle.
//
// Every query carries the visibility filters: postDate <= now, and either
// expiryDate > now or noExpiryDate == true.
//
// # Builder
//
//	reg := esquery.NewRegistry()
//	_, _ = reg.Register(esquery.FilterDefinition{
//	    SearchHandle: "category",
//	    ESFilterType: "term",
//	    FieldHandle:  "categorySlug",
//	})
//
//	b := esquery.New("entries", esquery.WithRegistry(reg)).
//	    SetSearchFields([]string{"title", "body"}).
//	    SetSiteAnalyzer("standard")
//	b.AddTextSearch("hello world")
//	doc, err := b.ApplyFilter("category", "news")
//
// # Verb dispatch
//
//	d := esquery.NewDispatcher(b)
//	doc, err = d.Call("category", "news")   // registered filter
//	doc, err = d.Call("searchString", "go") // built-in
//	_, err = d.Call("colour", "red")        // *NoSuchOperationError
package esquery
