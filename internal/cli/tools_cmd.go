package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spotimcp/internal/mcp"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tool catalog",
	RunE:  runTools,
}

var toolsJSON bool

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "emit the catalog with input schemas as JSON")
}

func runTools(_ *cobra.Command, _ []string) error {
	tools := mcp.ListTools()

	if toolsJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(tools)
	}

	s := newStyles(os.Stdout)
	fmt.Println(s.sectionHeader(fmt.Sprintf("Tools (%d)", len(tools))))
	for _, tool := range tools {
		fmt.Println(s.kv(tool.Name, tool.Description))
	}
	fmt.Println(s.dim("Run with --json for input schemas."))
	return nil
}
