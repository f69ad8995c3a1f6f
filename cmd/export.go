package cmd

import (
	"github.com/chazu/armature/pkg/export"
	"github.com/chazu/armature/pkg/project"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportCmd = &cobra.Command{
	Use:   "export <project.json>",
	Short: "Export a project as a solver input document",
	Long: "Export rebuilds the assembly from a project file and writes the\n" +
		"multibody solver document. Body geometry is restored as stubs, so the\n" +
		"document carries topology, frames, joints, and motors.",
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "solver.json", "output document path")
	exportCmd.Flags().String("description", "", "document description")
	_ = viper.BindPFlag("export.description", exportCmd.Flags().Lookup("description"))
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := project.Load(args[0])
	if err != nil {
		return err
	}
	asm, err := doc.RestoreSkeleton()
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	return export.Export(asm, out, export.Options{
		Description:       viper.GetString("export.description"),
		OriginalUnitScale: doc.UnitScale,
	})
}
