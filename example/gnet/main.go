package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/sinklog"
	"github.com/lixenwraith/sinklog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := sinklog.NewBuilder().
		FileLocation("/var/log/gnet/gnet.log").
		LogLevel("debug").
		Routing("debug:file,info:file,warn:file+console,error:file+console,fatal:file+console").
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	gnetAdapter := compat.NewGnetAdapter(logger, compat.WithGnetHost("edge-01"))

	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		panic(err)
	}
}
