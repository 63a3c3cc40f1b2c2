// Package sdk embeds esquery in a Go program: a filter registry optionally
// persisted in Valkey or Redis, and per-call query composition.
//
//	client, _ := sdk.New(ctx,
//	    sdk.WithValkey("localhost:6379", ""),
//	    sdk.WithSearchDefaults("entries", []string{"title", "body"}, "standard"),
//	)
//	defer client.Close()
//
//	_, _ = client.Filters().Register(ctx, esquery.FilterDefinition{
//	    SearchHandle: "category", ESFilterType: "term", FieldHandle: "categorySlug",
//	})
//	res, _ := client.Compose(ctx, sdk.Query{
//	    Search:  []string{"climate report"},
//	    Filters: []sdk.Filter{{Handle: "category", Value: "news"}},
//	})
//
// Without WithValkey or WithRedis the registry lives in memory only.
package sdk
