// cmd/claims-portal/claims.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"claims-portal/internal/actions/claims/claimform"
	lookupclaim "claims-portal/internal/actions/claims/lookup-claim"
	submitclaim "claims-portal/internal/actions/claims/submit-claim"
	"claims-portal/internal/common/claimsapi"
	"claims-portal/internal/common/config"
	apperrors "claims-portal/internal/common/errors"
	"claims-portal/internal/common/validation"
	"claims-portal/internal/common/view"
	"claims-portal/internal/settlement"

	"github.com/spf13/cobra"
)

const cliTimeout = 30 * time.Second

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <dni-or-claim-id>",
		Short: "Look up a claim by DNI or claim ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(args[0])
			if query == "" {
				return errors.New(lookupclaim.MsgEmptyQuery)
			}
			if err := a.load("stderr"); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeoutOr(config.GetDuration(a.cfg.API.Timeout), cliTimeout))
			defer cancel()

			detail, err := a.apiClient().Lookup(ctx, query)
			if apperrors.HasCode(err, apperrors.ErrCodeClaimNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), lookupclaim.MsgNotFound)
				return nil
			}
			if err != nil {
				return errors.New(lookupclaim.MsgConnectFail + apperrors.DisplayMessage(err))
			}

			printDetail(cmd.OutOrStdout(), lookupclaim.BuildDetailCard(detail, settlement.NewCalculator()))
			return nil
		},
	}
}

func printDetail(out io.Writer, card *view.DetailCard) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Expediente\t%s\n", card.IDSiniestro)
	fmt.Fprintf(w, "Cliente\t%s\n", card.Cliente)
	printOptional(w, "DNI", card.DNI)
	printOptional(w, "Email", card.Email)
	printOptional(w, "Matrícula", card.Matricula)
	printOptional(w, "Vehículo", card.Vehiculo)
	fmt.Fprintf(w, "Taller\t%s\n", card.Taller)
	printOptional(w, "Póliza", card.TipoPoliza)
	printOptional(w, "Límite", card.Limite)
	printOptional(w, "Franquicia", card.Franquicia)
	if card.Estado != "" {
		fmt.Fprintf(w, "Estado\t%s\n", card.Estado)
	}
	fmt.Fprintf(w, "Mano de obra\t%s\n", card.ManoObra)
	fmt.Fprintf(w, "Piezas\t%s\n", card.Piezas)
	fmt.Fprintf(w, "Total\t%s\n", card.Total)
	if card.ShowSplit {
		suffix := ""
		if card.SplitEstimated {
			suffix = " (estimado)"
		}
		fmt.Fprintf(w, "Aseguradora\t%s%s\n", card.PagoAseguradora, suffix)
		fmt.Fprintf(w, "Cliente paga\t%s%s\n", card.PagoCliente, suffix)
	}
	if card.DocumentURL != "" {
		fmt.Fprintf(w, "Documento\t%s\n", card.DocumentURL)
	}
	_ = w.Flush()
	if card.Note != "" {
		fmt.Fprintln(out, card.Note)
	}
}

func printOptional(w io.Writer, label, value string) {
	if value != "" {
		fmt.Fprintf(w, "%s\t%s\n", label, value)
	}
}

func newSubmitCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a claim record from a JSON file",
		Long: `Submit validates a claim record (the POST /crear body) against the claim
schema and the form rules, then sends it to the claims API.

Example:
  claims-portal submit --file claim.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readClaimRecord(file)
			if err != nil {
				return err
			}
			if err := a.load("stderr"); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeoutOr(config.GetDuration(a.cfg.API.Timeout), cliTimeout))
			defer cancel()

			res, err := a.apiClient().Create(ctx, rec)
			if err != nil {
				return fmt.Errorf("%s: %s", submitclaim.TitleSendFailed, apperrors.DisplayMessage(err))
			}

			msg := res.Text()
			if msg == "" {
				msg = submitclaim.DefaultConfirmed
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", submitclaim.TitleSaved, msg, rec.Cliente.Nombre)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "claim record JSON file, - for stdin (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readClaimRecord loads and checks a record before anything is sent.
func readClaimRecord(path string) (*claimsapi.ClaimRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read claim: %w", err)
	}

	result, err := validation.ValidateClaimRecordJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse claim: %w", err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("claim does not match schema: %s", strings.Join(result.GetErrorMessages(), "; "))
	}

	var rec claimsapi.ClaimRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse claim: %w", err)
	}

	if err := claimform.FromRecord(&rec).Validate(); err != nil {
		fields := apperrors.Fields(err)
		if len(fields) > 0 {
			return nil, fmt.Errorf("%s (%s)", apperrors.DisplayMessage(err), strings.Join(fields, ", "))
		}
		return nil, err
	}
	return &rec, nil
}
