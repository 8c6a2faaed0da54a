package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/chanlog"
)

// Simulate rapid reconfiguration while channels are being created and used
func main() {
	var count atomic.Int64

	reg, err := chanlog.NewRegistry(nil)
	if err != nil {
		fmt.Printf("Registry error: %v\n", err)
		return
	}

	base, err := reg.GetOrCreate("base")
	if err != nil {
		fmt.Printf("Channel error: %v\n", err)
		return
	}

	// Log something constantly
	stop := make(chan struct{})
	go func() {
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			base.LogValues(chanlog.LevelInfo, "Test log", i)
			count.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	// Trigger multiple reconfigurations rapidly, each new channel picks up the latest config
	for i := 0; i < 10; i++ {
		err := reg.ApplyOverride(
			fmt.Sprintf("title=gen-%d", i),
			"template=%title %level %prompt",
			fmt.Sprintf("debug=%t", i%2 == 0),
		)
		if err != nil {
			fmt.Printf("Override error: %v\n", err)
		}

		ch, err := reg.GetOrCreate(fmt.Sprintf("gen-%d", i))
		if err != nil {
			fmt.Printf("Channel error: %v\n", err)
			continue
		}
		ch.Info("created after reconfiguration")
		time.Sleep(10 * time.Millisecond)
	}

	close(stop)
	time.Sleep(50 * time.Millisecond)
	fmt.Printf("Total logs attempted: %d, channels: %d\n", count.Load(), reg.Len())

	if err := reg.Shutdown(time.Second); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}
}
