package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/flowdexhq/flowdex/internal/service"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog enrichment coverage",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	insights, err := service.NewStatusService(dbClient).Insights(cmd.Context())
	if err != nil {
		return fmt.Errorf("compute insights: %w", err)
	}

	if statusJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(insights)
	}

	fmt.Println("Catalog")
	fmt.Printf("  Templates:          %d\n", insights.Catalog.TotalTemplates)
	fmt.Printf("  Without analytics:  %d\n", insights.Catalog.TemplatesWithoutAnalytics)

	fmt.Println("\nEnrichment")
	fmt.Printf("  Analytics rows:     %d\n", insights.Enrichment.TotalAnalytics)
	fmt.Printf("  Enriched:           %d\n", insights.Enrichment.Enriched)
	fmt.Printf("  Pending:            %d\n", insights.Enrichment.Pending)
	fmt.Printf("  Failed:             %d\n", insights.Enrichment.Failed)
	if insights.Enrichment.Inconsistent > 0 {
		fmt.Printf("  Inconsistent:       %d  (enriched but missing fields)\n", insights.Enrichment.Inconsistent)
	}

	fmt.Println("\nTop-2 classification")
	fmt.Printf("  With description:   %d\n", insights.Top2.HasUseCaseDescription)
	fmt.Printf("  Filled:             %d\n", insights.Top2.FilledTop2)
	fmt.Printf("  Pending:            %d\n", insights.Top2.PendingTop2)

	fmt.Println("\nServiceable names")
	fmt.Printf("  Named:              %d\n", insights.Naming.Named)
	fmt.Printf("  Pending:            %d\n", insights.Naming.PendingName)

	return nil
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print insights as JSON")
	rootCmd.AddCommand(statusCmd)
}
