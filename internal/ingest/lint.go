package ingest

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/products.schema.json
var productsSchema string

// Issue is one schema violation in a catalog file.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// Lint checks a catalog document against the product schema. It is stricter than Load: a file
// that lints with issues may still load, minus whatever could not be read.
func Lint(data []byte) ([]Issue, error) {
	schemaLoader := gojsonschema.NewStringLoader(productsSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("lint: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	issues := make([]Issue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, Issue{Field: field, Message: desc.Description()})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues, nil
}
