package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/khampton353/orrery/internal/store"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [planet]",
	Short: "Print a stored orbit record's metadata",
	Long: `Print the metadata of one stored orbit record, or list every stored
record when no planet is named.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	st, err := store.New(zlog)
	if err != nil {
		return fmt.Errorf("opening artifact store: %w", err)
	}
	defer st.Close()

	if len(args) == 0 {
		names, err := st.List()
		if err != nil {
			return fmt.Errorf("listing artifacts: %w", err)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}

	rec, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("planet:        %s\n", rec.Name)
	fmt.Printf("granularity:   %s\n", rec.Granularity)
	fmt.Printf("points:        %d\n", rec.Len())
	fmt.Printf("interval:      %.4f days\n", rec.IntervalDays)
	if rec.StepDegrees > 0 {
		fmt.Printf("step:          %.4f degrees\n", rec.StepDegrees)
	}
	fmt.Printf("period:        %.2f days\n", rec.PeriodDays())
	fmt.Printf("start JD:      %.2f\n", rec.StartJD)
	fmt.Printf("ref index:     %d\n", rec.RefIndex)
	fmt.Printf("span:          x [%.4f, %.4f] y [%.4f, %.4f] AU\n",
		rec.Span.MinX, rec.Span.MaxX, rec.Span.MinY, rec.Span.MaxY)
	return nil
}
