package extract

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// Category pairs a label with the keywords that vote for it. Slice order is
// the tie-break order.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type keywordTables struct {
	MerchantKeywords []string   `yaml:"merchant_keywords"`
	Categories       []Category `yaml:"categories"`
}

var tables = loadTables()

func loadTables() keywordTables {
	var t keywordTables
	if err := yaml.Unmarshal(keywordsYAML, &t); err != nil {
		panic(fmt.Sprintf("extract: parsing embedded keywords.yaml: %v", err))
	}
	return t
}

// Categories returns the fixed category list in tie-break order.
func Categories() []Category {
	out := make([]Category, len(tables.Categories))
	copy(out, tables.Categories)
	return out
}
