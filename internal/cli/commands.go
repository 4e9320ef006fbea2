package cli

import (
	"fmt"
	"strconv"

	"github.com/henderiw/intervalmap/pkg/interval"
	"github.com/henderiw/intervalmap/pkg/intervalmap"
	"github.com/spf13/cobra"
)

func parseKey(s string) (int64, error) {
	k, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q: %w", s, err)
	}
	return k, nil
}

func newDumpCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the base map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := o.load()
			if err != nil {
				return err
			}
			writeEntries(cmd.OutOrStdout(), m.All())
			return nil
		},
	}
}

func newGetCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY...",
		Short: "Print the entry containing every KEY",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := o.load()
			if err != nil {
				return err
			}
			for _, arg := range args {
				k, err := parseKey(arg)
				if err != nil {
					return err
				}
				e, ok := m.GetEntry(k)
				if !ok {
					return fmt.Errorf("%w: %d", intervalmap.ErrKeyNotFound, k)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.Interval, e.Value)
			}
			return nil
		},
	}
}

func newRangeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "range QUERY",
		Short: "Print the entries overlapping QUERY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := interval.ParseInt(args[0])
			if err != nil {
				return err
			}
			m, err := o.load()
			if err != nil {
				return err
			}
			writeEntries(cmd.OutOrStdout(), m.Range(q))
			return nil
		},
	}
}

func newInsertCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insert RANGE=VALUE...",
		Short: "Fill the uncovered parts of every RANGE with VALUE",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.mutate(cmd, args, func(m *intervalmap.Map[int64, string], e intervalmap.Entry[int64, string]) {
				m.Insert(e.Interval, e.Value)
			})
		},
	}
}

func newOverwriteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overwrite RANGE=VALUE...",
		Short: "Map every point of every RANGE to VALUE",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.mutate(cmd, args, func(m *intervalmap.Map[int64, string], e intervalmap.Entry[int64, string]) {
				m.Overwrite(e.Interval, e.Value)
			})
		},
	}
}

// mutate applies fn to the base map for every RANGE=VALUE of args in order
// and prints the result.
func (o *rootOptions) mutate(cmd *cobra.Command, args []string, fn func(*intervalmap.Map[int64, string], intervalmap.Entry[int64, string])) error {
	entries, err := parseEntries(args)
	if err != nil {
		return err
	}
	m, err := o.load()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fn(m, e)
		o.log.V(1).Info("applied", "range", e.Interval.String(), "value", e.Value, "entries", m.Len())
	}
	writeEntries(cmd.OutOrStdout(), m.All())
	return nil
}

func newRemoveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove RANGE...",
		Short: "Remove every RANGE from the map",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges := make([]interval.Interval[int64], 0, len(args))
			for _, arg := range args {
				iv, err := interval.ParseInt(arg)
				if err != nil {
					return err
				}
				ranges = append(ranges, iv)
			}
			m, err := o.load()
			if err != nil {
				return err
			}
			for _, iv := range ranges {
				m.Remove(iv)
			}
			writeEntries(cmd.OutOrStdout(), m.All())
			return nil
		},
	}
}

func newAppendCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "append RANGE=VALUE...",
		Short: "Append a second map built from the arguments, the base map wins",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseEntries(args)
			if err != nil {
				return err
			}
			m, err := o.load()
			if err != nil {
				return err
			}
			m.Append(intervalmap.Collect(m.Compare(), entrySeq(entries)))
			writeEntries(cmd.OutOrStdout(), m.All())
			return nil
		},
	}
}

func newMergeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge RANGE=VALUE...",
		Short: "Merge the base map with a second map built from the arguments",
		Long: `Merge the base map (left) with a second map built from the arguments (right).
Every resulting entry is tagged left(v), right(v) or both(l, r).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := parseEntries(args)
			if err != nil {
				return err
			}
			m, err := o.load()
			if err != nil {
				return err
			}
			merged := intervalmap.Merge(m, intervalmap.Collect(m.Compare(), entrySeq(entries)))
			writeEntries(cmd.OutOrStdout(), merged.All())
			return nil
		},
	}
}

func newInvertCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "invert FILL",
		Short: "Replace the map by its gaps, valued FILL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := o.load()
			if err != nil {
				return err
			}
			m.Invert(args[0])
			writeEntries(cmd.OutOrStdout(), m.All())
			return nil
		},
	}
}

func newSplitCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "split KEY",
		Short: "Split the map at KEY and print both halves separated by ---",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKey(args[0])
			if err != nil {
				return err
			}
			m, err := o.load()
			if err != nil {
				return err
			}
			tail := m.SplitOff(k)
			writeEntries(cmd.OutOrStdout(), m.All())
			fmt.Fprintln(cmd.OutOrStdout(), "---")
			writeEntries(cmd.OutOrStdout(), tail.All())
			return nil
		},
	}
}
