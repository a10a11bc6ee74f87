package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var ErrUnknownCommand = errors.New("unknown command")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Help() string
	Execute(ctx context.Context, cmd, rest string) error
}

// runREPL reads commands from scanner until EOF or "exit"/"quit".
//
// "help" prints a.Help(); every other command goes to a.Execute. Errors are
// reported and the loop keeps going. When promptFn is non-nil its result is
// printed before each read.
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {
	for {
		if promptFn != nil {
			printlnFn(promptFn())
		}
		if !scanner.Scan() {
			return
		}
		cmd, rest := splitCommand(scanner.Text())
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			printlnFn(a.Help())

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			err := a.Execute(ctx, cmd, rest)
			switch {
			case errors.Is(err, ErrUnknownCommand):
				printlnFn("Unknown command:", cmd)
			case err != nil:
				printlnFn("Error:", err)
			}
		}
	}
}
