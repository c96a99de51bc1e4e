// Command admin manages the LMS entities from the terminal, through the same backend API as the dashboard.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger, err := logsvc.NewLocal("admin", conf.Debug)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}

	// start CLI
	cli := commandLine{conf: conf, out: os.Stdout}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Errorw(fmt.Sprintf("error: %s", err), "args", os.Args[1:])
		}
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}
