package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/equivalency"
)

type estimateOutput struct {
	Type        string             `json:"activity_type"`
	Subtype     string             `json:"subtype"`
	Impact      activity.Impact    `json:"impact"`
	Equivalency equivalency.Output `json:"equivalency"`
}

// NewEstimateCmd creates the estimate command, which runs the impact
// estimator over one set of form values without storing anything.
func NewEstimateCmd() *cobra.Command {
	var (
		typeName string
		subtype  string
		fields   map[string]string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the impact of a single activity",
		Example: `  ecoquest estimate --type Travel --subtype car --field distance=50 --field duration=1
  ecoquest estimate --type Purchase --subtype clothing --field item_name=Shirt --field quantity=2 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := activity.ParseType(typeName)
			if err != nil {
				return errors.New(activity.UserMessage(err))
			}
			if subtype == "" {
				subtype = activity.DefaultSubtype(t)
			}
			impact, err := activity.Estimate(t, subtype, fields)
			if err != nil {
				return errors.New(activity.UserMessage(err))
			}
			eq, err := equivalency.Calculate(impact.Carbon)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(estimateOutput{Type: string(t), Subtype: subtype, Impact: impact, Equivalency: eq})
			}

			fmt.Fprintf(out, "Carbon footprint: %.2f kg CO2e\n", impact.Carbon)
			fmt.Fprintf(out, "Plastic waste:    %.2f kg\n", impact.Plastic)
			fmt.Fprintf(out, "Water usage:      %.2f L\n", impact.Water)
			if !eq.Empty {
				fmt.Fprintln(out, eq.DisplayText)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "activity type (Travel, Purchase, Energy)")
	cmd.Flags().StringVar(&subtype, "subtype", "", "activity subtype; defaults per type")
	cmd.Flags().StringToStringVar(&fields, "field", nil, "form field as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
