package commands

import (
	"kaimporter/lib/gdrive"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Lists the catalogs that can be scraped.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTable()
		t.AppendHeader(table.Row{"Name", "Document", "Instagram", "Website"})
		for _, s := range loadSources() {
			t.AppendRow(table.Row{s.Name, gdrive.DocUrl(s.DocId), s.Instagram, s.Website})
		}
		t.Render()
	},
}
