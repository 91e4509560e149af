// Command createadmin provisions the first administrator account: the auth
// user on the identity backend plus its role document in the usuarios
// collection. Run it once against a fresh project.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Manuufarina/gestion-zoonosis/config"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/entity"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

func main() {
	email := flag.String("email", "", "admin account email")
	password := flag.String("password", "", "admin account password")
	name := flag.String("name", "Administrador", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createadmin -email <email> -password <password> [-name <name>]")
		os.Exit(1)
	}

	if err := run(context.Background(), *email, *password, *name); err != nil {
		slog.Error("failed to create admin", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, email, password, name string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	}

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return err
	}

	authClient, err := fbApp.Auth(ctx)
	if err != nil {
		return err
	}

	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(name)
	user, err := authClient.CreateUser(ctx, params)
	if err != nil {
		return err
	}

	store, err := fbApp.Firestore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	doc := entity.User{
		Name:  name,
		Email: email,
		Role:  entity.RoleAdmin,
	}
	if _, err := store.Collection("usuarios").Doc(user.UID).Set(ctx, doc); err != nil {
		return err
	}

	slog.Info("admin account created", slog.String("uid", user.UID), slog.String("email", email))

	return nil
}
