package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fablecast/internal/voice"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var localeFilter string

	cmd := &cobra.Command{
		Use:         "voices",
		Short:       "List the built-in voice catalog",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := voice.NewRegistry()
			filter := strings.TrimSpace(localeFilter)

			rows := make([][]string, 0)
			for _, v := range registry.Voices() {
				if filter != "" && !strings.EqualFold(v.Locale, filter) {
					continue
				}
				rows = append(rows, []string{
					v.ID,
					v.Locale,
					v.Gender,
					v.Age,
					v.Tone,
					v.Quality,
					strconv.Itoa(v.BaseRank),
				})
			}
			if len(rows) == 0 {
				return fmt.Errorf("no voices for locale %q (known: %s)",
					filter, strings.Join(registry.Locales(), ", "))
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Voice", "Locale", "Gender", "Age", "Tone", "Quality", "Rank"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&localeFilter, "locale", "", "Only show voices for this locale")
	return cmd
}
