// Command admin creates an administrator account. Registration over HTTP is
// itself restricted to administrators, so the first one is seeded here.
//
//	admin -email a@x.com [-name "Full Name"]
//
// Database and hashing settings are read the same way the server reads them.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/dmitrijs2005/chapel/internal/flagx"
	"github.com/dmitrijs2005/chapel/internal/logging"
	"github.com/dmitrijs2005/chapel/internal/prompt"
	"github.com/dmitrijs2005/chapel/internal/server"
	"github.com/dmitrijs2005/chapel/internal/server/config"
	"github.com/dmitrijs2005/chapel/internal/server/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "admin:", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	email := fs.String("email", "", "administrator email")
	name := fs.String("name", "", "administrator full name")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-email", "-name"})); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Env, os.Stderr)

	if *email == "" {
		if *email, err = prompt.Text(bufio.NewReader(os.Stdin), "Administrator email", os.Stdout); err != nil {
			return err
		}
	}

	password, err := prompt.NewPassword(os.Stdout)
	if err != nil {
		return err
	}

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.Users().CreateAdmin(ctx, services.NewUser{
		Email:    *email,
		Password: password,
		FullName: *name,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return fmt.Errorf("%s is already registered", *email)
		}
		return err
	}

	fmt.Printf("administrator %s created\n", user.Username)
	return nil
}
