package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/ziglog/prolog"
)

// Version is a version of this build.
var Version = "ziglog/0.1"

const historyFile = ".ziglog_history"

var colorOutput bool

func main() {
	var verbose, noColor bool
	pflag.BoolVarP(&verbose, "verbose", "v", false, `log solver dispatch`)
	pflag.BoolVar(&noColor, "no-color", false, `plain solution output`)
	pflag.Parse()

	colorOutput = !noColor && terminal.IsTerminal(int(os.Stdout.Fd()))

	logrus.SetLevel(logrus.WarnLevel)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	e := prolog.New()

	for _, a := range pflag.Args() {
		b, err := os.ReadFile(a)
		if err != nil {
			logrus.Fatalf("failed to read %s: %v", a, err)
		}
		if err := e.Exec(string(b)); err != nil {
			logrus.Fatalf("failed to consult %s: %v", a, err)
		}
	}

	if !terminal.IsTerminal(int(os.Stdin.Fd())) {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			logrus.Fatalf("failed to read stdin: %v", err)
		}
		if err := e.Exec(string(b)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	repl(e)
}

func repl(e *prolog.Engine) {
	fmt.Println(Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		src, ok := readQuery(ln)
		if !ok {
			fmt.Println()
			return
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(strings.TrimSuffix(src, "\n"), "\n", " "))
		if strings.TrimSpace(src) == "halt." {
			return
		}
		runQuery(e, ln, src)
	}
}

// readQuery keeps prompting until the buffer parses as a complete clause
// or fails with a hard syntax error (which runQuery will report).
func readQuery(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := "?- "
		if b.Len() > 0 {
			prompt = "|  "
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !errors.Is(probeParse(b.String()), prolog.ErrInsufficient) {
			return b.String(), true
		}
	}
}

func probeParse(src string) error {
	_, err := prolog.NewParser(src).Clause()
	return err
}

func runQuery(e *prolog.Engine, ln *liner.State, src string) {
	n := 0
	_, err := e.Query(src, func(s *prolog.Solution) error {
		n++

		m := map[string]prolog.Term{}
		s.Scan(m)

		var ls []string
		for _, name := range s.Vars() {
			if strings.HasPrefix(name, "_") {
				continue
			}
			v := m[name]
			if w, ok := v.(prolog.Variable); ok && string(w) == name {
				continue
			}
			ls = append(ls, fmt.Sprintf("%s = %s", name, colorize(v.String(), colorOutput)))
		}
		if len(ls) == 0 {
			fmt.Println("true.")
			return prolog.ErrStop
		}

		fmt.Printf("%s ", strings.Join(ls, ",\n"))
		more, err := ln.Prompt("")
		if err != nil || !strings.HasPrefix(strings.TrimSpace(more), ";") {
			fmt.Println(".")
			return prolog.ErrStop
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if n == 0 {
		fmt.Println("  false.")
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}
