// Command tdmsinfo inspects TDMS files, including the DAQmx raw data most
// TDMS tooling cannot decode. It prints the group/channel tree and
// optionally object properties, scaler layouts and sample values.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/acqlab/tdms"
	"github.com/acqlab/tdms/segment"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tdmsinfo:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		showProperties bool
		showScalers    bool
		dataCount      int
	)

	cmd := &cobra.Command{
		Use:   "tdmsinfo [flags] <file>",
		Short: "Inspect a TDMS file and its DAQmx channels",
		Long: `tdmsinfo walks the segments of a TDMS file and prints its group and
channel tree. Compressed archives (gzip, zstd, lz4, s2) are decompressed
transparently.

DAQmx channels report their scaler layout and decoded sample counts;
standard channels report their declared type and value count.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args[0], showProperties, showScalers, dataCount)
		},
	}

	cmd.Flags().BoolVarP(&showProperties, "properties", "p", false, "print object properties")
	cmd.Flags().BoolVarP(&showScalers, "scalers", "s", false, "print per-channel DAQmx scaler tables")
	cmd.Flags().IntVarP(&dataCount, "data", "d", 0, "print the first N values of each DAQmx channel")

	return cmd
}

func run(out io.Writer, path string, showProperties, showScalers bool, dataCount int) error {
	f, err := tdms.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(out, "%s: TDMS v%d\n", path, f.Version())
	if showProperties {
		printProperties(out, "  ", f.Properties())
	}

	for _, group := range f.Groups() {
		fmt.Fprintf(out, "group %q\n", group.Name())
		if showProperties {
			printProperties(out, "  ", group.Properties())
		}

		for _, ch := range group.Channels() {
			if err := printChannel(out, ch, showProperties, showScalers, dataCount); err != nil {
				return err
			}
		}
	}

	return nil
}

func printChannel(out io.Writer, ch *tdms.Channel, showProperties, showScalers bool, dataCount int) error {
	kind := ch.DataType().String()
	if ch.IsDAQmx() {
		kind = fmt.Sprintf("DAQmx, %d scalers", len(ch.Scalers()))
	}
	fmt.Fprintf(out, "  channel %q: %s, %d values\n", ch.Name(), kind, ch.NumberValues())

	if showProperties {
		printProperties(out, "    ", ch.Properties())
	}

	if showScalers {
		for _, s := range ch.Scalers() {
			fmt.Fprintf(out, "    %s\n", s)
		}
	}

	if dataCount > 0 && ch.IsDAQmx() {
		vals, err := ch.Read()
		if err != nil {
			return fmt.Errorf("reading %s: %w", ch.Path(), err)
		}
		n := min(dataCount, len(vals))
		fmt.Fprintf(out, "    data: %v", vals[:n])
		if n < len(vals) {
			fmt.Fprintf(out, " ... (%d more)", len(vals)-n)
		}
		fmt.Fprintln(out)
	}

	return nil
}

func printProperties(out io.Writer, indent string, props segment.Properties) {
	for _, p := range props {
		fmt.Fprintf(out, "%s%s = %v (%s)\n", indent, p.Name, p.Value, p.DataType)
	}
}
