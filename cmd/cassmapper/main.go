package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"cassmapper/internal/logger"
)

var opts struct {
	Debug bool `long:"debug" description:"print debugging messages"`
}

var log = zap.NewNop()

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		log = logger.New(opts.Debug)
		defer log.Sync() //nolint:errcheck
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	addCommands(parser)

	if _, err := parser.Parse(); err != nil {
		switch flagsErr := err.(type) {
		case *flags.Error:
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		default:
			os.Exit(1)
		}
	}
}
