// server/internal/database/seeder.go
package database

import (
	"context"
	"log"
	"time"

	"agrifield-api-server/internal/auth"
	"agrifield-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedDemoUser creates the demo dashboard account if it does not exist yet.
// Only runs when server.seedDemo is enabled.
func SeedDemoUser(db *mongo.Database) error {
	userCollection := db.Collection("users")
	demoEmail := "demo@agrifield.example"

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": demoEmail})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Demo user already exists. Seeding skipped.")
		return nil
	}

	log.Println("Demo user not found. Seeding...")
	hashedPassword, err := auth.HashPassword("demopassword")
	if err != nil {
		return err
	}

	demo := models.User{
		Name:            "Demo Farmer",
		Email:           demoEmail,
		Password:        hashedPassword,
		AuthProvider:    models.ProviderLocal,
		ProfileComplete: true,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	_, err = userCollection.InsertOne(context.Background(), demo)
	if err != nil {
		return err
	}

	log.Println("Demo user seeded successfully.")
	return nil
}
