// Package suggestd provides an in-process client for search-as-you-type
// suggestions backed by the Redis query engine.
//
// Raw user input is split into terms, rendered into a boolean prefix query
// (every term but the last is an exact phrase, the last one a prefix) and
// executed against a suggestion index. Each database keeps two physical
// indexes: stable serves queries while genesis is rebuilt next to it.
//
// # Suggestions
//
//	client, _ := suggestd.New(ctx,
//	    suggestd.WithRedis("localhost:6379", ""),
//	    suggestd.WithDefaults(suggestd.QueryOptions{MinPrefixLength: 2}),
//	)
//	defer client.Close()
//
//	res, _ := client.Suggest("products").Query("red sho").Limit(5).Do(ctx)
//	for _, h := range res.Hits {
//	    fmt.Println(h.ID, h.Fields["title"])
//	}
//
// # Index provisioning
//
//	client.Indexes().Create(ctx, "products", suggestd.BaseGenesis,
//	    suggestd.Field{Name: "title", Type: suggestd.FieldText},
//	)
//	client.Indexes().Upsert(ctx, "products", suggestd.BaseGenesis, docs)
//
// # Hooks
//
// Hooks run around every lookup in a fixed order: PreExecute, CleanTerm,
// PostParse, PostBuild, PostExecute. Several WithHooks options are chained
// in the order they are given.
//
// BuildQuery renders an expression without a connection, which is useful
// for inspecting what a lookup would send.
package suggestd
