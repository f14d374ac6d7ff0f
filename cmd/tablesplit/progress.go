package main

import (
	"os"

	"github.com/mattn/go-isatty"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/folbricht/tablesplit"
)

// newProgressBar wraps a github.com/cheggaaa/pb bar to satisfy
// tablesplit.ProgressBar. Returns nil (a legal, disabled ProgressBar) when
// stderr isn't a terminal, so piped/logged output stays clean.
func newProgressBar(prefix string) tablesplit.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	bar := pb.New(0).Prefix(prefix)
	bar.ShowCounters = true
	bar.Output = os.Stderr
	return consoleProgressBar{bar}
}

type consoleProgressBar struct {
	*pb.ProgressBar
}

func (p consoleProgressBar) SetTotal(total int) { p.ProgressBar.SetTotal(total) }
func (p consoleProgressBar) Start()             { p.ProgressBar.Start() }
func (p consoleProgressBar) Finish()            { p.ProgressBar.Finish() }
func (p consoleProgressBar) Increment() int     { return p.ProgressBar.Increment() }
func (p consoleProgressBar) Add(add int) int    { return p.ProgressBar.Add(add) }
func (p consoleProgressBar) Set(current int)    { p.ProgressBar.Set(current) }
