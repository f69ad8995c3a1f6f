package cmd

import (
	"fmt"
	"os"

	"github.com/chazu/armature/pkg/engine"
	"github.com/chazu/armature/pkg/export"
	"github.com/chazu/armature/pkg/kernel/sdfx"
	"github.com/chazu/armature/pkg/project"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <script.lisp>",
	Short: "Build an assembly from a script",
	Long: "Build evaluates an assembly script and writes the result as a project\n" +
		"file, a solver document, or both. Scripts run sandboxed with the box and\n" +
		"cylinder primitives backed by the SDF geometry kernel.",
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("project", "", "write a project file to this path")
	buildCmd.Flags().String("solver", "", "write a solver document to this path")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	eng := engine.NewEngineWithKernel(sdfx.New())
	asm, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
		}
		return fmt.Errorf("%d script errors", len(evalErrs))
	}

	projectPath, _ := cmd.Flags().GetString("project")
	solverPath, _ := cmd.Flags().GetString("solver")
	if projectPath == "" && solverPath == "" {
		return fmt.Errorf("nothing to do: pass --project and/or --solver")
	}

	if projectPath != "" {
		doc := project.FromAssembly(asm, "", 1.0)
		if err := project.Save(doc, projectPath); err != nil {
			return err
		}
	}
	if solverPath != "" {
		if err := export.Export(asm, solverPath, export.Options{OriginalUnitScale: 1.0}); err != nil {
			return err
		}
	}
	return nil
}
