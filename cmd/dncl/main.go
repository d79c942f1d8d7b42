package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	dncl "github.com/6Rix6/dncl-implementation"
)

const (
	appName     = "dncl"
	historyFile = ".dncl_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("DNCL %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", dncl.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(dncl.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`DNCL %s

Usage:
  %s run [-v] <file.dncl>    Run a program. -v dumps tokens and the syntax tree first.
  %s repl                    Start the REPL.
  %s version                 Print the version.

`, dncl.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "dump tokens and the syntax tree before running")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-v] <file.dncl>\n", appName)
		return 2
	}

	file := fs.Arg(0)
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	if *verbose {
		toks, lerr := dncl.Tokenize(string(src))
		if lerr != nil {
			fmt.Fprintln(os.Stderr, dncl.WrapErrorWithSource(lerr, string(src)))
			return 1
		}
		fmt.Println("--- tokens ---")
		fmt.Print(dncl.TokensString(toks))
	}

	prog, perr := dncl.Parse(string(src))
	if perr != nil {
		fmt.Fprintln(os.Stderr, dncl.WrapErrorWithSource(perr, string(src)))
		return 1
	}

	if *verbose {
		fmt.Println("--- syntax tree ---")
		fmt.Print(dncl.FormatProgram(prog))
		fmt.Println("--- output ---")
	}

	ip := dncl.NewInterpreter()
	ip.Input = stdinReader()

	lines, rerr := ip.Execute(prog)
	for _, ln := range lines {
		fmt.Println(ln)
	}
	if rerr != nil {
		fmt.Fprintln(os.Stderr, dncl.WrapErrorWithSource(rerr, string(src)))
		return 1
	}
	return 0
}

func stdinReader() func() (string, error) {
	r := bufio.NewReader(os.Stdin)
	return func() (string, error) {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := dncl.NewInterpreter()
	ip.Input = func() (string, error) { return ln.Prompt("input> ") }

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(strings.ToLower(code)) {
			case ":quit":
				return 0
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		lines, err := ip.Run(code)
		for _, out := range lines {
			fmt.Println(blue(out))
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(dncl.WrapErrorWithSource(err, code).Error()))
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe accumulates lines until the buffer parses, or fails with a
// definite (non-incomplete) error. An unclosed block keeps the continuation
// prompt going.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := dncl.ParseInteractive(src)
		if perr == nil {
			return src, true
		}
		if dncl.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
