package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/lixenwraith/chanlog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[chanlog]
  template = "[%year-%month-%dom %hour24:%minute:%second.%millis] %level %title: %prompt"
  title = "simple"
  directory = "./simple_logs"
  file_name = "%year-%month-%dom_simple"
  zip = true
  debug = true
  # Other settings use defaults
`

func main() {
	fmt.Println("--- Simple Channel Example ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := chanlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v. Using defaults.\n", err)
		cfg = chanlog.DefaultConfig()
	}

	// --- Initialize Registry ---
	reg, err := chanlog.NewRegistry(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create registry: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Registry initialized.")

	app, err := reg.GetOrCreate("app")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create channel: %v\n", err)
		os.Exit(1)
	}

	// --- Logging ---
	app.Info("Application starting...")
	app.Client("Client connected.")
	app.Warning("Potential issue detected.")
	app.Error("An error occurred!")
	app.LogValues(chanlog.LevelServer, "request", map[string]int{"status": 200, "bytes": 512})

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			app.LogValues(chanlog.LevelInfo, "goroutine finished", "id", id)
		}(i)
	}
	wg.Wait()
	fmt.Println("Goroutines finished.")

	// --- Snapshot ---
	next := app.Snapshots().NextFile()
	if next.Save() {
		fmt.Printf("Snapshot saved to: %s\n", next.Path())
	} else {
		fmt.Fprintln(os.Stderr, "Snapshot save failed, see error output.")
	}

	// --- Shutdown Registry ---
	if err := reg.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Registry shutdown error: %v\n", err)
	} else {
		fmt.Println("Registry shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check snapshot files in './simple_logs' and the config '%s'.\n", configFile)
}
