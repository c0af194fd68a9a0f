// Command usertool is a maintenance CLI for account administration: listing
// accounts and granting the admin role without going through the HTTP API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/avelin/snapfeed-be/internal/config"
	"github.com/avelin/snapfeed-be/internal/database"
	"github.com/avelin/snapfeed-be/internal/services"
)

func main() {
	list := flag.Bool("list", false, "print id, username and admin flag for every account")
	promote := flag.String("promote", "", "grant the admin role to the named account")
	flag.Parse()

	if !*list && *promote == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	users := services.NewUserService(db)

	if *promote != "" {
		user, err := users.GetByUsername(*promote)
		if err != nil {
			log.Fatalf("User not found: %s", *promote)
		}
		if err := users.SetAdmin(user.ID); err != nil {
			log.Fatalf("Failed to promote %s: %v", *promote, err)
		}
		fmt.Printf("%s is now an admin\n", *promote)
	}

	if *list {
		all, err := users.List()
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
		for _, u := range all {
			fmt.Printf("%d\t%s\tadmin=%v\n", u.ID, u.Username, u.IsAdmin)
		}
	}
}
