package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fablecast/internal/library"
	"fablecast/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show preflight checks and library contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()

			checkRows := make([][]string, 0)
			for _, result := range preflight.RunAll(cfg) {
				checkRows = append(checkRows, []string{result.Name, yesNo(result.Passed), result.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "OK", "Detail"},
				checkRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			store, err := library.Open(cfg)
			if err != nil {
				return fmt.Errorf("open library: %w", err)
			}
			defer store.Close()

			docs, err := store.ListDocuments(cmd.Context())
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}
			if len(docs) == 0 {
				fmt.Fprintln(out, "Library is empty")
				return nil
			}

			docRows := make([][]string, 0, len(docs))
			for _, doc := range docs {
				chapters, err := store.ChaptersByDocument(cmd.Context(), doc.ID)
				if err != nil {
					return fmt.Errorf("list chapters: %w", err)
				}
				completed := 0
				for _, chapter := range chapters {
					if chapter.Status == library.ChapterCompleted {
						completed++
					}
				}
				docRows = append(docRows, []string{
					strconv.FormatInt(doc.ID, 10),
					doc.Title,
					doc.Author,
					string(doc.Status),
					fmt.Sprintf("%d/%d", completed, len(chapters)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Author", "Status", "Chapters done"},
				docRows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
