package secrets_test

import (
	"log"

	"github.com/MatthiasKunnen/slock/pkg/secrets"
)

func Example() {
	s, err := secrets.New()
	if err != nil {
		log.Fatalf("Failed to connect to the secret service: %v", err)
	}
	defer s.Close()

	if err := s.Lock([]string{"login"}); err != nil {
		log.Printf("Failed to lock the login keyring: %v", err)
	}

	if err := s.LockAll(); err != nil {
		log.Printf("Failed to lock all keyrings: %v", err)
	}
}
