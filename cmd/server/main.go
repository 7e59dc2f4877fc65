// Command server starts the validation API.
package main

import (
	"flag"
	"os"

	"github.com/bradsommer/list-validator/rules"
	"github.com/bradsommer/list-validator/schema"
	"github.com/bradsommer/list-validator/server"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "listen address")
		catalogPath = flag.String("catalog", "", "optional YAML schema catalog overlay")
	)
	flag.Parse()

	catalog := schema.BuiltinCatalog()
	if *catalogPath != "" {
		loaded, err := schema.LoadCatalogFile(*catalogPath)
		if err != nil {
			server.Logger.Error("Failed to load catalog", "path", *catalogPath, "error", err)
			os.Exit(1)
		}
		catalog = loaded
	}

	srv := server.New(catalog, rules.DefaultRegistry())

	server.Logger.Info("Starting server", "addr", *addr)
	if err := srv.Engine().Run(*addr); err != nil {
		server.Logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
