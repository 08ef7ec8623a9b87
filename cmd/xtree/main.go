package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

const (
	exitSuccess = 0
	exitError   = 1
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xtree",
		Short:         "Self-balancing binary search tree toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newStressCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "xtree: %v\n", err)
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}
