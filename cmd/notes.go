package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/distlab-cli/internal/notes"
)

var (
	notesLang      string
	notesHTML      bool
	notesOutput    string
	notesColor     string
	notesKeywordsN int
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Offline note tools",
}

var notesOrganizeCmd = &cobra.Command{
	Use:   "organize [file]",
	Short: "Rewrite free-form notes as structured Markdown, offline",
	Long:  `Organize reads a note (a file, or stdin with '-'), extracts license numbers, device codes and frequent terms as keywords, and rewrites the note as structured Markdown in English or Traditional Chinese. With --html, keyword occurrences are wrapped in highlighted spans.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		text, _, err := readInput(path)
		if err != nil {
			return err
		}
		lang := notesLang
		if lang == "" {
			lang = cfg.Language
		}
		md := notes.Organize(text, lang)
		if notesHTML {
			color := notesColor
			if color == "" {
				color = cfg.HighlightColor
			}
			md = notes.Highlight(md, notes.ExtractKeywords(text, notesKeywordsN), color)
		}
		return writeOutput(md, notesOutput)
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesOrganizeCmd)
	notesOrganizeCmd.Flags().StringVar(&notesLang, "lang", "", "output language: en|zh-TW (default from config)")
	notesOrganizeCmd.Flags().BoolVar(&notesHTML, "html", false, "highlight keywords with HTML spans")
	notesOrganizeCmd.Flags().StringVar(&notesColor, "color", "", "highlight color (default from config)")
	notesOrganizeCmd.Flags().IntVar(&notesKeywordsN, "keywords", 12, "maximum keywords to extract")
	notesOrganizeCmd.Flags().StringVarP(&notesOutput, "output", "o", "", "write result to a file")
}
