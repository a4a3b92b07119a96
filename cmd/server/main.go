// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/nthenge/sokoreach/internal/api"
	"github.com/nthenge/sokoreach/internal/config"
	"github.com/nthenge/sokoreach/internal/history"
	"github.com/nthenge/sokoreach/internal/store"
)

// Standalone status server. Serves the same endpoints the run command
// exposes with --status-addr, but from the last persisted state, so
// quota consumption and recent deliveries can be inspected between
// runs.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	holder := api.NewHolder()
	st := store.NewFileStore(cfg.DataDir)
	progress, state, err := st.Load()
	if err != nil {
		log.Println("⚠️ Could not load saved state:", err)
	}
	if progress != nil {
		holder.PublishProgress(*progress)
	}
	if state != nil {
		holder.PublishState(*state)
	}

	rl := cfg.RateLimit()
	srv := &api.StatusServer{
		Holder:      holder,
		DailyLimit:  rl.MaxPerDay,
		HourlyLimit: rl.MaxPerHour,
	}

	if cfg.HistoryPath != "" {
		archive, err := history.Open(cfg.HistoryPath)
		if err != nil {
			log.Println("⚠️ Delivery history disabled:", err)
		} else {
			defer archive.Close()
			srv.History = archive
		}
	}

	addr := cfg.StatusAddr
	if addr == "" {
		addr = ":8080"
	}
	log.Println("🚀 Status server running on", addr)
	log.Fatal(http.ListenAndServe(addr, srv.Router()))
}
