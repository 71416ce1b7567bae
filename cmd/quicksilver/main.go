package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	quicksilver "github.com/quicksilver-lang/quicksilver-go"
)

const (
	historyFile = ".quicksilver_history"
	prompt      = "qs> "
)

func main() {
	if len(os.Args) > 1 {
		os.Exit(runFile(os.Args[1]))
	}
	os.Exit(repl())
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "quicksilver:", err)
		return 1
	}
	rt := quicksilver.NewRuntime()
	defer rt.Close()

	result, err := rt.Eval(string(source), quicksilver.EvalFileName(filepath.Base(path)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !result.IsUndefined() {
		fmt.Println(result.ToString())
	}
	return 0
}

func repl() int {
	fmt.Printf("Quicksilver %s REPL\nCtrl+D or :quit to exit.\n", quicksilver.Version)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := filepath.Join(os.TempDir(), historyFile)
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	rt := quicksilver.NewRuntime()
	defer rt.Close()

	for {
		input, err := line.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "quicksilver:", err)
			return 1
		}
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			return 0
		}
		line.AppendHistory(input)

		result, err := rt.Eval(input)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(result.ToString())
	}
}
