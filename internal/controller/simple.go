package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "makemod.dev/pkg/makemod/internal/model"
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplaySummary prints the generation results or the failure.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("generation error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderSummaryTable(summary))

	if len(summary.Groups) > 0 {
		s.printf("\nTest groups: %s\n", strings.Join(summary.Groups, ", "))
	}

	return nil
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Fragment", "Variables", "Files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	for _, frag := range summary.Fragments {
		table.Append([]string{
			string(frag.Path),
			fmt.Sprintf("%d", frag.Bindings),
			fmt.Sprintf("%d", frag.Files),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Fragments %d", len(summary.Fragments)),
		fmt.Sprintf("%d", summary.TotalBindings()),
		fmt.Sprintf("%d", summary.TotalFiles()),
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...any) {
	s.cmd.Printf(format, args...)
}
