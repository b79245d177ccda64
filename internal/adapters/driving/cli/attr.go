package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var attrListCmd = &cobra.Command{
	Use:   "attrList FILE",
	Short: "Print all attributes as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttrList,
}

var attrGetCmd = &cobra.Command{
	Use:   "attrGet FILE KEY",
	Short: "Print one attribute as JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  runAttrGet,
}

var attrSetCmd = &cobra.Command{
	Use:   "attrSet FILE KEY VAL",
	Short: "Set an attribute",
	Long:  `Sets KEY to VAL, creating FILE if needed. An empty VAL clears KEY.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runAttrSet,
}

var attrClrCmd = &cobra.Command{
	Use:   "attrClr FILE KEY",
	Short: "Clear an attribute",
	Args:  cobra.ExactArgs(2),
	RunE:  runAttrClr,
}

func init() {
	rootCmd.AddCommand(attrListCmd)
	rootCmd.AddCommand(attrGetCmd)
	rootCmd.AddCommand(attrSetCmd)
	rootCmd.AddCommand(attrClrCmd)
}

var errNoFileService = errors.New("file service not configured")

func runAttrList(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errNoFileService
	}

	attrs, err := fileService.ListAttrs(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Print("{")
	for i, a := range attrs {
		if i > 0 {
			cmd.Print(",")
		}
		cmd.Printf("\n\t\"%s\":\"%s\"", a.Key, a.Val)
	}
	if len(attrs) > 0 {
		cmd.Println()
	}
	cmd.Println("}")
	return nil
}

func runAttrGet(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errNoFileService
	}

	key := args[1]
	val, err := fileService.GetAttr(cmd.Context(), args[0], key)
	if err != nil {
		return err
	}
	cmd.Printf("{\"%s\":\"%s\"}\n", key, val)
	return nil
}

func runAttrSet(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errNoFileService
	}
	return fileService.SetAttr(cmd.Context(), args[0], args[1], args[2])
}

func runAttrClr(cmd *cobra.Command, args []string) error {
	if fileService == nil {
		return errNoFileService
	}
	return fileService.ClearAttr(cmd.Context(), args[0], args[1])
}
