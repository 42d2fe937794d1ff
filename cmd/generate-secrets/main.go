package main

import (
	"fmt"
	"log"

	"github.com/hyvacanteen/canteen-coupon-backend/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("JWT Secret Generator for Canteen Coupons")
	fmt.Println("===========================================")
	fmt.Println()

	accessSecret, err := utils.GenerateSecret(32)
	if err != nil {
		log.Fatalf("Failed to generate access secret: %v", err)
	}

	refreshSecret, err := utils.GenerateSecret(32)
	if err != nil {
		log.Fatalf("Failed to generate refresh secret: %v", err)
	}

	fmt.Println("Secrets generated successfully!")
	fmt.Println()
	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)
	fmt.Println()
	fmt.Println("Keep these secrets out of version control.")
	fmt.Println("===========================================")
}
