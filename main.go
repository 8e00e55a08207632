package main

import (
	"ledtoggle-go/services/ledctl"
	"ledtoggle-go/x/logx"
)

func main() {
	ctx, stop := bootContext()
	defer stop()
	log := logx.New(ledctl.Module, logx.LevelDebug)

	b, yield, err := openBoard(ctx)
	if err != nil {
		log.Error("board", logx.Err(err))
		return
	}
	defer b.Close()
	b.Start(ctx)

	c := ledctl.New(b, log)
	c.Yield = yield
	if err := c.Setup(ctx); err != nil {
		log.Error("setup failed", logx.Err(err))
		return
	}
	_ = c.Idle(ctx)
}
