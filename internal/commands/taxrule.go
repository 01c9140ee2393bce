package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fiscal/internal/config"
	"github.com/cleared-dev/fiscal/internal/taxrule"
)

func newTaxRuleCommand() *cobra.Command {
	var q taxrule.Query
	var taxID, home string

	cmd := &cobra.Command{
		Use:   "taxrule",
		Short: "Resolve the VAT rule of a sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := taxrule.NewJurisdiction(home, config.EUStandardRates())
			if err != nil {
				return err
			}
			if taxID != "" {
				q.ValidTaxID = taxrule.ValidTaxID(q.CustomerCountry, taxID)
			}

			out := cmd.OutOrStdout()
			res, err := j.Resolve(q)
			if err != nil {
				fmt.Fprintf(out, "warning: %v\n", err)
			}
			fmt.Fprintf(out, "rule: %s\nrate: %s%%\n", res.Rule, res.Rate)
			if q.Business {
				fmt.Fprintf(out, "valid tax id: %t\n", q.ValidTaxID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&q.ServiceCountry, "service", "FR", "country the service is supplied from")
	cmd.Flags().StringVar(&q.CustomerCountry, "customer", "FR", "customer country")
	cmd.Flags().BoolVar(&q.Business, "business", false, "customer is a business")
	cmd.Flags().StringVar(&taxID, "tax-id", "", "customer VAT number")
	cmd.Flags().StringVar(&home, "home", "FR", "home jurisdiction")
	return cmd
}
