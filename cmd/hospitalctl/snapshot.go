package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/app"
	"github.com/jwalitptl/hospital-api/internal/mirror"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func snapshotCmd() *cobra.Command {
	var (
		out      string
		useRedis bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Copy every record into an offline mirror (JSON file or redis key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (out == "") == !useRedis {
				return errors.New("exactly one of --out or --redis is required")
			}

			ctx := cmd.Context()
			rt, err := open(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			var persister mirror.Persister
			if out != "" {
				persister = mirror.NewFilePersister(out)
			} else {
				if rt.cfg.Redis.URL == "" {
					return errors.New("redis.url is not configured")
				}
				client, err := app.NewRedisClient(ctx, rt.cfg.Redis.URL)
				if err != nil {
					return err
				}
				defer client.Close()
				persister = mirror.NewRedisPersister(client, rt.cfg.Redis.MirrorKey)
			}

			state, err := collect(ctx, rt.repos)
			if err != nil {
				return err
			}
			if err := persister.Save(ctx, state); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d patients, %d doctors, %d visits, %d prescriptions\n",
				len(state.Patients), len(state.Doctors), len(state.Visits), len(state.Prescriptions))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the mirror to this JSON file")
	cmd.Flags().BoolVar(&useRedis, "redis", false, "Write the mirror to the configured redis key")
	return cmd
}

// collect reads every collection through the repositories into a mirror state.
func collect(ctx context.Context, repos *repository.Repositories) (mirror.State, error) {
	patients, err := repos.Patients.ListAll(ctx)
	if err != nil {
		return mirror.State{}, err
	}
	doctors, err := repos.Doctors.ListAll(ctx)
	if err != nil {
		return mirror.State{}, err
	}
	visits, err := repos.Visits.ListAll(ctx)
	if err != nil {
		return mirror.State{}, err
	}
	prescriptions, err := repos.Prescriptions.ListAll(ctx)
	if err != nil {
		return mirror.State{}, err
	}

	s := mirror.State{}
	s = mirror.Reduce(s, mirror.AddPatients{Patients: values(patients)})
	s = mirror.Reduce(s, mirror.AddDoctors{Doctors: values(doctors)})
	s = mirror.Reduce(s, mirror.AddVisits{Visits: values(visits)})
	s = mirror.Reduce(s, mirror.AddPrescriptions{Prescriptions: values(prescriptions)})
	return s, nil
}

func values[T model.Patient | model.Doctor | model.Visit | model.Prescription](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	return out
}
