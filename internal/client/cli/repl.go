package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddJournal(ctx context.Context) error
	AddDiary(ctx context.Context) error
	AddBucket(ctx context.Context) error
	AddItem(ctx context.Context, bucketID string) error
	List(ctx context.Context, what string) error
	Pin(ctx context.Context, bucketID string, pinned bool) error
	DeleteBucket(ctx context.Context, bucketID string) error
	DeleteEntry(ctx context.Context, entryID string) error
	Import(ctx context.Context, path string, dryRun bool) error
	Export(ctx context.Context, toS3 bool) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the GophJournal CLI.
//
// It reads a line from r, parses the first token as the command, and
// dispatches to methods on 'a'. Command handlers read their own prompts from
// the same reader. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Commands
//
//	Not logged in:
//	  - help                      show available commands
//	  - register                  create an account
//	  - login                     authenticate and unlock the journal
//	  - status                    show session state
//	  - exit | quit               leave the program
//
//	Logged in, additionally:
//	  - addjournal | adddiary     add an entry
//	  - addbucket                 add a bucket list
//	  - additem [bucket-id]       add an item to a bucket
//	  - (l)ist [journals|diaries|buckets]
//	  - pin | unpin <bucket-id>
//	  - deletebucket <id>, deleteentry <id>
//	  - import <path> [dry-run]   merge an export file
//	  - export [s3]               write an export file
//	  - logout
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gj %s> ", statusFn()))
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		arg := func(usage string) (string, bool) {
			if len(args) == 0 {
				printlnFn("Usage:", usage)
				return "", false
			}
			return args[0], true
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: addjournal, adddiary, addbucket, additem, (l)ist, pin, unpin, deletebucket, deleteentry, import, export, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if !a.isLoggedIn() {
				printlnFn("Please login first. Unknown or unavailable command:", cmd)
				continue
			}
			dispatchRecord(ctx, a, cmd, args, arg)
		}
	}
}

func dispatchRecord(ctx context.Context, a execIface, cmd string, args []string, arg func(string) (string, bool)) {
	switch cmd {
	case "addjournal":
		_ = a.AddJournal(ctx)

	case "adddiary":
		_ = a.AddDiary(ctx)

	case "addbucket":
		_ = a.AddBucket(ctx)

	case "additem":
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		_ = a.AddItem(ctx, id)

	case "l", "list":
		what := ""
		if len(args) > 0 {
			what = args[0]
		}
		_ = a.List(ctx, what)

	case "pin", "unpin":
		if id, ok := arg(cmd + " <bucket-id>"); ok {
			_ = a.Pin(ctx, id, cmd == "pin")
		}

	case "deletebucket":
		if id, ok := arg("deletebucket <bucket-id>"); ok {
			_ = a.DeleteBucket(ctx, id)
		}

	case "deleteentry":
		if id, ok := arg("deleteentry <entry-id>"); ok {
			_ = a.DeleteEntry(ctx, id)
		}

	case "import":
		if path, ok := arg("import <path> [dry-run]"); ok {
			dry := len(args) > 1 && (args[1] == "dry-run" || args[1] == "--dry-run")
			_ = a.Import(ctx, path, dry)
		}

	case "export":
		_ = a.Export(ctx, len(args) > 0 && args[0] == "s3")

	default:
		printlnFn("Unknown command:", cmd)
	}
}
