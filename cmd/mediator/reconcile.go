package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	var orderID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile PENDING orders against the gateway status API",
		Long: `Reconcile asks the gateway for the outcome of PENDING orders and records it.

Without --order it runs one sweep over orders older than RECONCILE_STALE_AFTER,
up to RECONCILE_BATCH_SIZE of them.

Examples:
  mediator reconcile
  mediator reconcile --order ORD0192A4C3E1F27B8C9D0E1F2A3B4C5D6`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if orderID != "" {
				txn, err := a.reconciliation.HandleStatusInquiry(ctx, orderID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", txn.OrderID, txn.Status)
				return nil
			}

			result, err := a.sweeper().ReconcileStale(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked=%d reconciled=%d failed=%d\n",
				result.Checked, result.Reconciled, result.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "reconcile a single order id")
	return cmd
}
