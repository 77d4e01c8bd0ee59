package infra

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// InitFirestore connects to the project Firestore. Credentials come from
// FIREBASE_CREDENTIALS_BASE64; without them the client falls back to
// application default credentials, which covers local emulator runs.
func InitFirestore() *firestore.Client {
	ctx := context.Background()

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	if projectID == "" {
		log.Fatal("FIREBASE_PROJECT_ID environment variable is missing")
	}

	var opts []option.ClientOption
	if encoded := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			log.Fatalf("Failed to decode Firebase credentials: %v", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase app: %v", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	log.Println("Firestore client initialized successfully")
	return client
}

func CloseFirestore(client *firestore.Client) {
	if err := client.Close(); err != nil {
		log.Printf("Error closing Firestore client: %v", err)
	} else {
		log.Println("Firestore client closed successfully")
	}
}
