package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/app"
	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
)

type importOptions struct {
	userID  string
	publish bool
}

func importCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <patients|visits|prescriptions> <file.csv>",
		Short: "Ingest a CSV file with the same rules as the upload endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.EntityKind(strings.ToLower(args[0]))
			switch kind {
			case model.EntityPatients, model.EntityVisits, model.EntityPrescriptions:
			default:
				return fmt.Errorf("unknown entity %q", args[0])
			}
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rt, err := open(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			account, err := rt.repos.Doctors.GetByUserID(ctx, opts.userID)
			if err != nil {
				return fmt.Errorf("unknown account %q: %w", opts.userID, err)
			}
			actor := model.Actor{
				UserID:           account.UserID,
				Role:             account.Role,
				DoctorID:         account.DoctorID,
				DoctorName:       account.DoctorName,
				DoctorSpeciality: account.DoctorSpeciality,
			}

			var broker messaging.Broker = messaging.NoopBroker{}
			if opts.publish {
				if broker, err = app.OpenBroker(ctx, rt.cfg, rt.log); err != nil {
					return err
				}
			}
			a := app.New(rt.cfg, app.Deps{
				Repos:    rt.repos,
				Broker:   broker,
				Notifier: app.NewNotifier(rt.cfg.Mail),
				Logger:   rt.log,
			})
			defer a.Events.Close()

			report, err := a.Upload.Import(ctx, guard.For(actor), kind, raw)
			if err != nil {
				return err
			}
			a.Upload.Wait()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&opts.userID, "as", "", "user_id of the account performing the import (required)")
	cmd.Flags().BoolVar(&opts.publish, "publish", true, "Publish the import.completed event when redis is configured")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}
