package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/service/doctor"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin and doctor logins",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			svc := doctor.NewService(rt.repos.Doctors, security.NewBcryptHasher(0), rt.log)
			n, err := svc.Seed(cmd.Context(), doctor.DefaultAccounts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d accounts\n", n, len(doctor.DefaultAccounts))
			return nil
		},
	}
}
