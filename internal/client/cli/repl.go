package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type handler func(ctx context.Context, args []string) error

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	report(err error)

	Status(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Signup(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Drafts(ctx context.Context, args []string) error
	SubmitDraft(ctx context.Context, args []string) error
	DiscardDraft(ctx context.Context, args []string) error
	Subscribe(ctx context.Context, args []string) error
	BuyImport(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

func commands(a execIface) map[string]handler {
	return map[string]handler{
		"status":        a.Status,
		"login":         a.Login,
		"signup":        a.Signup,
		"logout":        a.Logout,
		"l":             a.List,
		"list":          a.List,
		"show":          a.Show,
		"add":           a.Add,
		"edit":          a.Edit,
		"delete":        a.Delete,
		"attach":        a.Attach,
		"drafts":        a.Drafts,
		"submit-draft":  a.SubmitDraft,
		"discard-draft": a.DiscardDraft,
		"subscribe":     a.Subscribe,
		"buy-import":    a.BuyImport,
		"open":          a.Open,
		"callback":      a.Open,
		"return":        a.Open,
		"export":        a.Export,
	}
}

// runREPL starts a simple read-eval-print loop.
//
// It reads a line from reader, parses the first token as the command
// and dispatches to the matching method of a. Handler errors are passed to
// a.report and never end the loop. The loop exits at EOF, when the
// user types "exit" or "quit", or when ctx is done.
//
//	Always:
//	  help                      available commands
//	  status                    who is signed in
//	  list | l, show <id>       browse the inventory
//	  add, edit <id>            item forms, kept as drafts while signed out
//	  drafts, submit-draft <id>, discard-draft <id>
//	  open | callback | return <url>
//	                            follow a login or payment link
//	  exit | quit
//
//	Signed out:
//	  login, signup
//
//	Signed in:
//	  delete <id>, attach <id> <file>
//	  subscribe, buy-import, export [file|s3]
//	  logout
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	cmds := commands(a)
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("mitteie %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, (l)ist, show, add, edit, delete, attach, drafts, submit-draft, discard-draft, subscribe, buy-import, export, open, logout, exit")
			} else {
				printlnFn("Available commands: status, login, signup, (l)ist, show, add, edit, drafts, discard-draft, open, exit")
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		h, ok := cmds[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		a.report(h(ctx, args))
	}
}
