package config_test

import (
	"fmt"

	"github.com/niveshquant/quantfolio/pkg/config"
)

// Example shows the usual startup sequence: load once, pass the struct
// down. Output depends on the host environment, so none is asserted.
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("config rejected:", err)
		return
	}

	fmt.Println("storage backend:", cfg.Storage.Backend)
	fmt.Println("snapshot path:", cfg.Data.SnapshotCSV)
	fmt.Println("enrichment provider:", cfg.Enrichment.Provider)
}
