// FILE: example/sink/main.go
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lixenwraith/chanlog"
)

const logDirectory = "./temp_logs"

// main walks one channel through several sink configurations
func main() {
	if err := os.RemoveAll(logDirectory); err != nil {
		fmt.Printf("Warning: could not remove old log directory: %v\n", err)
	}
	if err := os.MkdirAll(logDirectory, 0755); err != nil {
		fmt.Printf("Fatal: could not create log directory: %v\n", err)
		os.Exit(1)
	}

	reg, err := chanlog.NewBuilder().Directory(logDirectory).Debug(true).Build()
	if err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}
	defer reg.Shutdown()

	ch, err := reg.GetOrCreate("sinks")
	if err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("--- Running Sink Suite ---")

	runPhase(ch, "1: Default (stdout/stderr)")

	fileSink := chanlog.NewFileSink(filepath.Join(logDirectory, "file_only.log"), 1)
	ch.SetOutput(fileSink)
	ch.SetErrorOutput(fileSink)
	runPhase(ch, "2: Rolling file for both levels")

	buffered := bufio.NewWriter(os.Stdout)
	ch.SetOutput(chanlog.WriterSink(buffered))
	ch.SetErrorOutput(nil)
	runPhase(ch, "3: Buffered stdout, flushed per line")

	ch.SetOutput(nil)
	runPhase(ch, "4: Back to defaults")

	fmt.Printf("\nRecords kept: %d\n", ch.History().Len())
	fmt.Println("--- Sink Suite Complete ---")
	fmt.Printf("Check the '%s' directory for log files.\n", logDirectory)
}

func runPhase(ch *chanlog.Logger, name string) {
	fmt.Printf("\n[Phase %s]\n", name)
	ch.Info("start of phase " + name)
	ch.Warning("a warning")
	ch.Error("an error, routed to the error sink")
	ch.Info("end of phase " + name)
}
