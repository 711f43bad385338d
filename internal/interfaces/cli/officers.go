package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/laborguard/complaint-service/internal/domain/registry"
	"github.com/laborguard/complaint-service/internal/infrastructure/database/postgres"
	"github.com/laborguard/complaint-service/internal/infrastructure/database/postgres/repositories"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// cliActor is the identity used for registry operations performed from the
// command line.  The CLI talks to the database directly and is assumed to be
// run by an operator, so it acts with admin privileges.
var cliActor = common.Actor{ID: "cli", Role: common.RoleAdmin}

func newOfficersCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "officers",
		Short: "Manage the legal officer registry",
	}
	cmd.AddCommand(
		newOfficersAddCommand(opts),
		newOfficersListCommand(opts),
		newOfficersDeactivateCommand(opts),
	)
	return cmd
}

// withRegistry loads configuration, connects to the database, and hands a
// ready registry service to fn.
func withRegistry(opts *rootOptions, fn func(context.Context, registry.Service) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	svc := registry.NewService(repositories.NewOfficerRepository(conn.DB()), log)
	return fn(ctx, svc)
}

func newOfficersAddCommand(opts *rootOptions) *cobra.Command {
	var (
		name  string
		email string
		specs []string
	)
	cmd := &cobra.Command{
		Use:   "add <officer-id>",
		Short: "Register a legal officer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(opts, func(ctx context.Context, svc registry.Service) error {
				specializations := make([]registry.Specialization, 0, len(specs))
				for _, s := range specs {
					specializations = append(specializations, registry.Specialization(strings.TrimSpace(s)))
				}
				o, err := svc.Register(ctx, cliActor, registry.RegisterInput{
					OfficerID:       args[0],
					Name:            name,
					Email:           email,
					Specializations: specializations,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered officer %s (%s)\n", o.OfficerID, o.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "officer display name")
	cmd.Flags().StringVar(&email, "email", "", "officer email address")
	cmd.Flags().StringSliceVar(&specs, "specialization", nil,
		"specialization (repeatable): labor_law, harassment_law, discrimination_law, general")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("specialization")
	return cmd
}

func newOfficersListCommand(opts *rootOptions) *cobra.Command {
	var (
		spec       string
		activeOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered officers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRegistry(opts, func(ctx context.Context, svc registry.Service) error {
				officers, total, err := svc.List(ctx, cliActor, registry.ListFilter{
					Specialization: registry.Specialization(spec),
					ActiveOnly:     activeOnly,
					Pagination:     common.Pagination{Page: 1, PageSize: 100},
				})
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "OFFICER ID\tNAME\tACTIVE\tASSIGNED\tIN PROGRESS\tSPECIALIZATIONS")
				for _, o := range officers {
					specNames := make([]string, len(o.Specializations))
					for i, s := range o.Specializations {
						specNames[i] = string(s)
					}
					fmt.Fprintf(tw, "%s\t%s\t%v\t%d\t%d\t%s\n",
						o.OfficerID, o.Name, o.IsActive, o.TotalAssigned,
						o.ActiveAppointmentCount, strings.Join(specNames, ","))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&spec, "specialization", "", "filter by specialization")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only show active officers")
	return cmd
}

func newOfficersDeactivateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <officer-id>",
		Short: "Remove an officer from the assignment rotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(opts, func(ctx context.Context, svc registry.Service) error {
				o, err := svc.Deactivate(ctx, cliActor, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deactivated officer %s\n", o.OfficerID)
				return nil
			})
		},
	}
}
