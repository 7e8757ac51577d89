// Package assets bundles the default dataset used on first run and after a
// reset to initial data.
package assets

import (
	"embed"
	"encoding/json"
	"fmt"

	"carteira/internal/core"
)

//go:embed default_data.json
var dataFS embed.FS

// Dataset is the bundled account plus seed transactions.
type Dataset struct {
	Account      core.Account       `json:"account"`
	Transactions []core.Transaction `json:"transactions"`
}

// DefaultDataset decodes the embedded seed data. The stored balance is
// advisory; the store recomputes it from the transaction list on load.
func DefaultDataset() (Dataset, error) {
	raw, err := dataFS.ReadFile("default_data.json")
	if err != nil {
		return Dataset{}, fmt.Errorf("read default dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode default dataset: %w", err)
	}
	return ds, nil
}
