// FILE: example/gnet/main.go
package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/chanlog"
	"github.com/lixenwraith/chanlog/compat"
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
	reg, err := chanlog.NewBuilder().
		Directory("/var/log/gnet").
		Title("echo").
		Template("%hour24:%minute:%second %title %level %prompt").
		AutosaveIntervalS(300).
		Build()
	if err != nil {
		panic(err)
	}
	defer reg.Shutdown()

	gnetAdapter, err := compat.NewBuilder().WithRegistry(reg, "gnet").BuildGnet()
	if err != nil {
		panic(err)
	}

	// Configure gnet server with the logger
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
