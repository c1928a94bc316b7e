// Command pgchain renders and runs pgchain templates from the shell.
package main

import (
	"os"
)

const version = "0.1.0"

// main is THE entry point
func main() {
	args, err := parseArgs()
	if err != nil {
		logger.Error(err.Error() + "\n")
		os.Exit(1)
	}

	switch {
	case args.Render != nil:
		err = render(logger, args.Render)
	case args.Exec != nil:
		err = execTemplate(logger, &args.Connection, args.Exec)
	case args.Ping != nil:
		err = ping(logger, &args.Connection, args.Ping)
	default:
		rootParser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	if err != nil {
		logger.Error(err.Error() + "\n")
		os.Exit(1)
	}
}
