package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Download(ctx context.Context) error
	Upload(ctx context.Context) error
	QuickCheckin(ctx context.Context) error
	AddUser(ctx context.Context) error
	AddSubscription(ctx context.Context) error
	AddCheckin(ctx context.Context) error
	List(ctx context.Context) error
	CancelCheckin(ctx context.Context, args []string) error
	CancelSubscription(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("eventgate %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Commands: checkin, adduser, addsub, addcheckin, (l)ist, cancelcheckin <id>, cancelsub <id>")
			if a.isLoggedIn() {
				printlnFn("Sync: download, upload, logout, exit")
			} else {
				printlnFn("Sync (requires login): login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "download":
			_ = a.Download(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "checkin":
			_ = a.QuickCheckin(ctx)

		case "adduser":
			_ = a.AddUser(ctx)

		case "addsub":
			_ = a.AddSubscription(ctx)

		case "addcheckin":
			_ = a.AddCheckin(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "cancelcheckin":
			_ = a.CancelCheckin(ctx, args)

		case "cancelsub":
			_ = a.CancelSubscription(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
