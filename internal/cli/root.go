// Package cli implements the imap command, which builds an interval map of
// int64 keys and string values, applies one operation to it and prints the
// result one entry per line.
package cli

import (
	"flag"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/go-logr/logr"
	"github.com/henderiw/intervalmap/pkg/interval"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

const longDesc = `imap builds an interval map from --entry flags and an entry file, applies a
single operation to it and prints the resulting entries as RANGE<TAB>VALUE.

Ranges accept the notations N, >=N, <N, [a, b), (a, b], a..b, a..=b, ..b and
their unbounded forms. Entries of the file are applied first, then every
--entry flag in order, each with insert semantics.`

type rootOptions struct {
	entries []string
	file    string
	log     logr.Logger
}

// NewRootCmd returns the imap command with all its subcommands.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{log: logr.Discard()}
	cmd := &cobra.Command{
		Use:           "imap",
		Short:         "Build, query and mutate interval maps",
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			o.log = klog.Background().WithName("imap").WithValues("cmd", cmd.Name())
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringArrayVarP(&o.entries, "entry", "e", nil, "base map entry RANGE=VALUE, repeatable")
	fs.StringVarP(&o.file, "file", "f", "", "YAML or TOML file holding base map entries")

	addKlogFlags(fs)

	cmd.AddCommand(
		newDumpCmd(o),
		newGetCmd(o),
		newRangeCmd(o),
		newInsertCmd(o),
		newOverwriteCmd(o),
		newRemoveCmd(o),
		newAppendCmd(o),
		newMergeCmd(o),
		newInvertCmd(o),
		newSplitCmd(o),
	)
	return cmd
}

// addKlogFlags exposes the klog flags, e.g. -v, on fs.
func addKlogFlags(fs *pflag.FlagSet) {
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)
}

// Execute runs imap with the process arguments and returns its exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func writeEntries[V any](w io.Writer, seq iter.Seq2[interval.Interval[int64], V]) {
	for iv, v := range seq {
		fmt.Fprintf(w, "%s\t%v\n", iv, v)
	}
}
