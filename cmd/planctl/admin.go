package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/housekeeping"
	"github.com/humia/planning/internal/seed"
	"github.com/humia/planning/internal/store"
)

func (c *cli) addUser(ctx context.Context, args []string) error {
	fs := c.flags("adduser")
	email := fs.String("email", "", "adresse email du compte")
	firstName := fs.String("first-name", "", "prénom")
	lastName := fs.String("last-name", "", "nom")
	role := fs.String("role", string(application.RoleAdmin), "rôle: admin, responsable, coordinateur, formateur ou eleve")
	invitedBy := fs.String("invited-by", "", "email du compte qui invite; vide pour un administrateur principal")
	password := fs.String("password", "", "mot de passe; demandé sur le terminal si absent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return fmt.Errorf("%w: -email est requis", errUsage)
	}

	secret := *password
	if secret == "" {
		var err error
		if secret, err = c.readPassword("Mot de passe: "); err != nil {
			return err
		}
	}

	env, closeEnv, err := c.openLocal(ctx)
	if err != nil {
		return err
	}
	defer closeEnv()

	accounts := store.NewAccounts(env.storage.Users)
	service := application.NewAccountServiceWithLogger(accounts, nil, uuid.NewString, c.now, env.logger)

	params := application.CreateAccountParams{Input: application.AccountInput{
		Email:     *email,
		FirstName: *firstName,
		LastName:  *lastName,
		Role:      application.Role(strings.ToLower(strings.TrimSpace(*role))),
		Password:  secret,
	}}
	if inviter := strings.TrimSpace(*invitedBy); inviter != "" {
		creds, err := accounts.GetUserCredentialsByEmail(ctx, inviter)
		if err != nil {
			return fmt.Errorf("compte %s: %w", inviter, err)
		}
		principal := application.NewPrincipal(creds.User)
		params.Principal = &principal
	}

	user, err := service.CreateAccount(ctx, params)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "compte créé: %s (%s, %s)\n", user.Email, user.Role, user.ID)
	return nil
}

func (c *cli) seed(ctx context.Context, args []string) error {
	fs := c.flags("seed")
	path := fs.String("f", "", "document YAML à charger")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*path) == "" {
		return fmt.Errorf("%w: -f est requis", errUsage)
	}

	doc, err := seed.Load(*path)
	if err != nil {
		return err
	}

	env, closeEnv, err := c.openLocal(ctx)
	if err != nil {
		return err
	}
	defer closeEnv()

	adapters := store.FromStorage(env.storage)
	seeder := seed.NewSeeder(seed.Services{
		Owners:     adapters.Accounts,
		Schools:    application.NewSchoolServiceWithLogger(adapters.Registry, uuid.NewString, c.now, env.logger),
		Classrooms: application.NewClassroomServiceWithLogger(adapters.Registry, uuid.NewString, c.now, env.logger),
		Trainers:   application.NewTrainerServiceWithLogger(adapters.Registry, uuid.NewString, c.now, env.logger),
		Planning:   application.NewPlanningServiceWithLogger(adapters.Planning, adapters.Registry, adapters.Registry, uuid.NewString, c.now, env.logger),
	}, env.logger)

	result, err := seeder.Apply(ctx, doc)
	fmt.Fprintf(c.stdout, "écoles: %d, classes: %d, formateurs: %d, sessions: %d\n",
		result.Schools, result.Classrooms, result.Trainers, result.Sessions)
	return err
}

func (c *cli) purge(ctx context.Context, args []string) error {
	fs := c.flags("purge")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, closeEnv, err := c.openLocal(ctx)
	if err != nil {
		return err
	}
	defer closeEnv()

	adapters := store.FromStorage(env.storage)
	auth := application.NewAuthService(adapters.Accounts, adapters.Sessions, application.AuthServiceConfig{
		HashToken:  application.NewHMACTokenHasher([]byte(env.config.SessionSecret)),
		Now:        c.now,
		SessionTTL: env.config.SessionTTL,
		Logger:     env.logger,
	})
	purger, err := housekeeping.New(env.config.SessionPurgeCron, auth, env.logger)
	if err != nil {
		return err
	}
	removed, err := purger.RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "sessions expirées supprimées: %d\n", removed)
	return nil
}
