package cmd

import (
	"fmt"

	"github.com/chazu/armature/pkg/project"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <project.json>",
	Short: "Summarize a project file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := project.Load(args[0])
	if err != nil {
		return err
	}
	asm, err := doc.RestoreSkeleton()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "project:    %s\n", args[0])
	fmt.Fprintf(out, "step file:  %s\n", doc.StepFile)
	fmt.Fprintf(out, "unit scale: %g m per model unit\n", doc.UnitScale)
	fmt.Fprintf(out, "bodies:     %d\n", len(asm.Bodies()))
	fmt.Fprintf(out, "frames:     %d\n", len(asm.Frames()))

	joints := asm.Joints()
	fmt.Fprintf(out, "joints:     %d\n", len(joints))
	for _, j := range joints {
		line := fmt.Sprintf("  %-20s %-12s %d-%d axis %s", j.Name, j.Type, j.Body1, j.Body2, j.Axis)
		if j.Motorized {
			line += "  [" + j.MotorDescription() + "]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
