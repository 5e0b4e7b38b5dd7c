package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pratik-mahalle/nutriscan/pkg/client"
)

// Example demonstrates basic usage of the NutriScan client
func Example() {
	// Create a new client
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	// Sign in
	auth, err := c.SignIn(ctx, "user@example.com", "password")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Signed in as: %s\n", auth.User.Email)

	// Scan a product
	result, err := c.Scans().Scan(ctx, "7501000673209")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s scored %d (%s)\n", result.Product.Name, result.Analysis.Score, result.Analysis.Level)
}

// ExampleClient_ContinueAsGuest demonstrates a guest session
func ExampleClient_ContinueAsGuest() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()
	if _, err := c.ContinueAsGuest(ctx, ""); err != nil {
		log.Fatal(err)
	}
	// Guest data is removed here
	defer c.SignOut(ctx)

	q, err := c.Subscription().Quota(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d of %d scans left today\n", q.Remaining, q.Limit)
}

// ExampleScanService_Scan demonstrates handling the daily limit
func ExampleScanService_Scan() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
		Token:   "saved-session-token",
	})

	result, err := c.Scans().Scan(context.Background(), "7501000673209")
	if apiErr, ok := err.(*client.APIError); ok && apiErr.IsQuotaExceeded() {
		fmt.Println("Daily limit reached, upgrade for more scans")
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	for _, w := range result.Analysis.Warnings {
		fmt.Printf("  ! %s\n", w)
	}
}

// ExampleProfileService_Update demonstrates declaring conditions and goals
func ExampleProfileService_Update() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
		Token:   "saved-session-token",
	})

	p, err := c.Profile().Update(context.Background(), client.UpdateProfileRequest{
		Conditions: []string{"diabetes", "hipertension"},
		Goals:      []string{"reducir_azucar"},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Conditions: %v\n", p.Conditions)
}

// ExampleHistoryService_Export demonstrates downloading history as CSV
func ExampleHistoryService_Export() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
		Token:   "saved-session-token",
	})

	data, err := c.History().Export(context.Background(), "csv")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Exported %d bytes\n", len(data))
}

// ExampleClient_Health demonstrates checking API health
func ExampleClient_Health() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	health, err := c.Health(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("API Status: %s\n", health.Status)
}
