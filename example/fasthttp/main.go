// FILE: example/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/chanlog"
	"github.com/lixenwraith/chanlog/compat"
)

func main() {
	reg, err := chanlog.NewRegistry(nil)
	if err != nil {
		panic(err)
	}
	err = reg.ApplyOverride(
		"directory=/var/log/fasthttp",
		"file_name=%year-%month-%dom_http",
		"output_file=/var/log/fasthttp/server.out",
		"sanitization=line",
	)
	if err != nil {
		panic(err)
	}
	defer reg.Shutdown()

	channel, err := reg.GetOrCreate("http")
	if err != nil {
		panic(err)
	}

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		channel,
		compat.WithDefaultLevel(chanlog.LevelServer),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) (chanlog.Level, bool) {
	if strings.Contains(msg, "connection cannot be served") {
		return chanlog.LevelWarning, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return chanlog.LevelError, true
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
