package main

import (
	"context"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
)

const consoleKey = "$console"

func consoleFrom(c *ishell.Context) *Console {
	return c.Get(consoleKey).(*Console)
}

var commands = []*ishell.Cmd{
	{
		Name: "led",
		Help: "led a|b - toggle one LED",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(errUnknownLED)
				return
			}
			if err := consoleFrom(c).Toggle(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	},
	{
		Name: "send",
		Help: "send <text> - send characters one at a time",
		Func: func(c *ishell.Context) {
			if err := consoleFrom(c).Send([]byte(strings.Join(c.Args, " "))); err != nil {
				c.Err(err)
			}
		},
	},
	{
		Name: "raw",
		Help: "raw <hex> - send bytes given in hex",
		Func: func(c *ishell.Context) {
			if err := consoleFrom(c).Raw(c.Args); err != nil {
				c.Err(err)
			}
		},
	},
	{
		Name: "listen",
		Help: "listen [duration] - print device output for a while (default 2s)",
		Func: func(c *ishell.Context) {
			d := 2 * time.Second
			if len(c.Args) > 0 {
				v, err := time.ParseDuration(c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				d = v
			}
			ctx, cancel := context.WithTimeout(context.Background(), d)
			defer cancel()
			<-ctx.Done()
		},
	},
}

// newShell builds the interactive shell around con.
func newShell(con *Console) *ishell.Shell {
	sh := ishell.New()
	sh.Set(consoleKey, con)
	sh.SetPrompt("ledterm> ")
	for _, cmd := range commands {
		sh.AddCmd(cmd)
	}
	return sh
}

// runScript executes each statement of script in order and stops at the
// first failure.
func runScript(sh *ishell.Shell, script string) error {
	stmts, err := splitScript(script)
	if err != nil {
		return err
	}
	for _, args := range stmts {
		if err := sh.Process(args...); err != nil {
			return err
		}
	}
	return nil
}
