package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	suvawa "github.com/tufbyte/suvawa"
)

const (
	appName     = "suvawa"
	historyFile = ".suvawa_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("Suvawa %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", suvawa.Version)

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
		fmt.Println(suvawa.Version)
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
	fmt.Printf(`Suvawa %s

Usage:
  %s run <file.sua> [--] [args...]        Run a script.
  %s repl                                 Start the REPL.
  %s version                              Print the compiled version

`, suvawa.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.sua> [--] [args...]\n", appName)
		return 2
	}

	file := args[0]
	argv := args[1:]
	if len(argv) > 0 && argv[0] == "--" {
		argv = argv[1:]
	}

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := suvawa.NewInterpreter()

	prog, perr := suvawa.Parse(string(src))
	if perr != nil {
		fmt.Fprintln(os.Stderr, suvawa.WrapErrorWithName(perr, file, string(src)).Error())
		return 1
	}

	child := suvawa.NewEnv(ip.Global)
	vals := make([]suvawa.Value, 0, len(argv))
	for _, a := range argv {
		vals = append(vals, suvawa.Str(a))
	}
	child.Define("argv", suvawa.List(vals))

	if _, err := ip.EvalProgram(prog, child); err != nil {
		fmt.Fprintln(os.Stderr, suvawa.WrapErrorWithName(err, file, string(src)).Error())
		return 1
	}
	return 0
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

	ip := suvawa.NewInterpreter()

	for {
		code, more := readByParseProbe(ln, promptMain, promptCont)
		if !more {
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

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(suvawa.WrapErrorWithName(err, "<repl>", code).Error()))
			continue
		}
		fmt.Println(blue(suvawa.FormatValue(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe reads lines until the buffer parses, or fails with a
// non-incomplete error (which evaluation will then re-surface with a proper
// snippet).
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
		if _, perr := suvawa.ParseInteractive(src); perr == nil || !suvawa.IsIncomplete(perr) {
			return src, true
		}
	}
}
