package cmd

import (
	"fmt"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/project"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <project.json>",
	Short: "Check a project for consistency problems",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := project.Load(args[0])
	if err != nil {
		return err
	}
	asm, err := doc.RestoreSkeleton()
	if err != nil {
		return err
	}

	findings := asm.Validate()
	blocking := 0
	for _, f := range findings {
		fmt.Fprintln(cmd.OutOrStdout(), f.Error())
		if f.Severity == assembly.SeverityError {
			blocking++
		}
	}
	if blocking > 0 {
		return fmt.Errorf("%d blocking validation errors", blocking)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d bodies, %d joints, %d frames\n",
		len(asm.Bodies()), len(asm.Joints()), len(asm.Frames()))
	return nil
}
