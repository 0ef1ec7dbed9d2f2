// cmd/claims-portal/estimate.go
package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"claims-portal/internal/actions/claims/claimform"
	"claims-portal/internal/settlement"

	"github.com/spf13/cobra"
)

// newEstimateCmd runs the settlement calculator locally. It needs no config
// and never calls the claims API.
func newEstimateCmd(_ *app) *cobra.Command {
	var (
		policy     string
		limit      string
		deductible string
		labor      string
		parts      string
		year       int
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate how a repair bill splits between insurer and customer",
		Example: `  claims-portal estimate --tipo TODO_RIESGO --limite 5000 --mo 100 --piezas 200 --anio 2010
  claims-portal estimate --tipo TODO_RIESGO_FRANQUICIA --franquicia 300 --limite 5000 --mo 150 --piezas 163`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := settlement.NewCalculator().Calculate(settlement.Input{
				PolicyType: policy,
				Limit:      claimform.ParseAmount(limit),
				Deductible: claimform.ParseAmount(deductible),
				Labor:      claimform.ParseAmount(labor),
				Parts:      claimform.ParseAmount(parts),
				Year:       year,
			})
			if err != nil {
				return err
			}
			printInvoice(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&policy, "tipo", "", "policy type: TERCEROS (default), TODO_RIESGO, TODO_RIESGO_FRANQUICIA")
	cmd.Flags().StringVar(&limit, "limite", "0", "policy limit in euros")
	cmd.Flags().StringVar(&deductible, "franquicia", "0", "deductible in euros")
	cmd.Flags().StringVar(&labor, "mo", "0", "labor cost in euros")
	cmd.Flags().StringVar(&parts, "piezas", "0", "parts cost in euros")
	cmd.Flags().IntVar(&year, "anio", 0, "vehicle year, 0 if unknown")
	return cmd
}

func printInvoice(out io.Writer, res *settlement.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Mano de obra\t%s\t\n", settlement.Euros(res.Labor))
	fmt.Fprintf(w, "Piezas\t%s\t\n", settlement.Euros(res.Parts))
	fmt.Fprintf(w, "Depreciación piezas\t-%s\t\n", settlement.Euros(res.Depreciation))
	fmt.Fprintf(w, "Base imponible\t%s\t\n", settlement.Euros(res.Base))
	fmt.Fprintf(w, "IVA (21%%)\t%s\t\n", settlement.Euros(res.VAT))
	fmt.Fprintf(w, "Total siniestro\t%s\t\n", settlement.Euros(res.Total))
	fmt.Fprintf(w, "A pagar por aseguradora\t%s\t\n", settlement.Euros(res.InsurerPays))
	fmt.Fprintf(w, "A pagar por cliente\t%s\t\n", settlement.Euros(res.CustomerPays))
	_ = w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, res.VehicleNote)
	fmt.Fprintln(out, res.Resolution)
}
