package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/chanlog"
)

const (
	totalBursts    = 100
	logsPerBurst   = 200
	maxMessageSize = 2000
	numWorkers     = 50
	numChannels    = 8
)

const configFile = "stress_config.toml"

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
[chanlog]
  directory = "./stress_logs"
  file_name = "%year-%month-%dom_%hour24%minute"
  zip = true
  autosave_interval_s = 1 # Snapshot every channel every second
  output_file = "./stress_logs/stress.out"
  output_max_size_mb = 1 # Force frequent roll-over
  sanitization = "line"
`

var channels []*chanlog.Logger

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 \n\t"
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		ch := channels[rand.Intn(len(channels))]
		level := chanlog.Levels[rand.Intn(len(chanlog.Levels))]
		msg := generateRandomMessage(rand.Intn(maxMessageSize) + 10)
		ch.LogValues(level, msg, "wkr", burstID%numWorkers, "bst", burstID, "seq", i)
	}
}

// worker goroutine function
func worker(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	fmt.Println("--- Channel Stress Test ---")

	// --- Setup Config ---
	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		os.Exit(1)
	}
	logsDir := "./stress_logs"
	_ = os.RemoveAll(logsDir) // Clean previous run

	cfg, err := chanlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v.\n", err)
		os.Exit(1)
	}

	reg, err := chanlog.NewRegistry(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create registry: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < numChannels; i++ {
		ch, err := reg.GetOrCreate(fmt.Sprintf("worker-%d", i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create channel: %v\n", err)
			os.Exit(1)
		}
		channels = append(channels, ch)
	}
	fmt.Printf("Registry initialized with %d channels. Snapshots in: %s\n", numChannels, logsDir)

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(burstChan, &wg, &completedBursts)
	}

	// --- Run Test ---
	startTime := time.Now()
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			goto endLoop
		}
	}
endLoop:
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate Logs/sec: %.2f\n", logsPerSec)
	}

	var records, snapshots int
	for _, ch := range channels {
		records += ch.History().Len()
		saves, failures := ch.Snapshots().AutoSaveStats()
		snapshots += int(saves)
		if failures > 0 {
			fmt.Printf("Channel %s: %d autosave failures\n", ch.Identity(), failures)
		}
	}
	fmt.Printf("Records kept: %d, autosaved snapshots: %d\n", records, snapshots)

	// --- Shutdown Registry ---
	fmt.Println("Shutting down registry (allowing up to 10s)...")
	if err := reg.Shutdown(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Registry shutdown error: %v\n", err)
	} else {
		fmt.Println("Registry shutdown complete.")
	}

	fmt.Printf("Check snapshot files in '%s' and the config '%s'.\n", logsDir, configFile)
}
