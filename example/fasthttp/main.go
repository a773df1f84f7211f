package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/compat"
)

func main() {
	cfg := sinklog.DefaultConfig()
	err := cfg.ApplyOverride(
		"file_location=/var/log/fasthttp/server.log",
		"log_level=info",
		"routing=info:file+buffer,warn:file,error:file+console,fatal:file+console",
		"buffer_location=/var/log/fasthttp/batches.txt",
		"buffer_flush_threshold=50",
		"buffer_flush_interval_ms=2000",
	)
	if err != nil {
		panic(err)
	}

	fasthttpAdapter, err := compat.NewBuilder().
		WithConfig(cfg).
		BuildFastHTTP(
			compat.WithDefaultLevel(sinklog.LevelInfo),
			compat.WithLevelDetector(customLevelDetector),
		)
	if err != nil {
		panic(err)
	}

	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

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

func customLevelDetector(msg string) sinklog.Level {
	if strings.Contains(msg, "connection cannot be served") {
		return sinklog.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return sinklog.LevelError
	}
	return compat.DetectLogLevel(msg)
}
