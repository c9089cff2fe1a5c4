package main

import (
	"flag"
	"fmt"
	"log"

	"kisa-schools/app/config"
	"kisa-schools/app/database"
	"kisa-schools/app/models"
)

func main() {
	email := flag.String("email", "", "user email")
	password := flag.String("password", "", "user password")
	firstName := flag.String("first", "", "first name")
	lastName := flag.String("last", "", "last name")
	admin := flag.Bool("admin", false, "grant the admin role")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}

	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	user := &models.User{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	if err := database.CreateUser(db, user); err != nil {
		log.Fatalf("Error creating user: %v", err)
	}

	if *admin {
		if err := database.AssignRoleByName(db, user.ID, "admin"); err != nil {
			log.Fatalf("Error assigning admin role: %v", err)
		}
	}

	fmt.Printf("User created successfully: %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
}
