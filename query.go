package suggestd

import (
	"fmt"

	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/query"
)

// BuildQuery renders raw into the boolean prefix expression a lookup would
// execute, without hooks or a connection.
//
//	BuildQuery("cat dog elephant", QueryOptions{})  // +"cat" +"dog" +elephant*
//	BuildQuery("ab", QueryOptions{})                // "" (no term reaches 3 characters)
func BuildQuery(raw string, o QueryOptions) (string, error) {
	opts, err := o.apply(options.Default())
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}
	return query.Build(raw, opts), nil
}
