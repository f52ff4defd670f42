// Package main runs the workout log MCP server over stdio (for local assistant use).
// The same MCP server is also mounted on the service at /mcp over streamable HTTP.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/irontracker/internal/config"
	gymstatsmcp "github.com/2beens/irontracker/internal/gymstats/mcp"
	"github.com/2beens/irontracker/internal/gymstats/stats"
	"github.com/2beens/irontracker/internal/gymstats/store"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the MCP transport
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	cat, err := cfg.LoadCatalog()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.StoreParams(os.Getenv("IRON_POSTGRES_PASSWORD")))
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Errorf("close store: %v", err)
		}
	}()

	analyzer := stats.NewAnalyzer(st, cat, cfg.Thresholds, cfg.Now())
	server := gymstatsmcp.NewServer(st, analyzer)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %v", err)
	}
}
