package lock_test

import (
	"log"
	"os"

	"github.com/MatthiasKunnen/slock/pkg/lock"
)

func ExampleHint_dbus() {
	h, err := lock.NewDbusSessionHint(os.Getenv("XDG_SESSION_ID"))
	if err != nil {
		log.Fatalf("Failed to initialize dbus hint: %v", err)
	}
	defer h.Close()

	// Lock the screens, then publish it.
	if err := h.SetLocked(true); err != nil {
		log.Printf("Failed to set locked to true: %v", err)
	}

	locked, err := h.GetLocked()
	if err != nil {
		log.Printf("Failed to get locked hint: %v", err)
	}
	log.Printf("Session locked: %t", locked)

	// After the user authenticated.
	if err := h.SetLocked(false); err != nil {
		log.Printf("Failed to set locked to false: %v", err)
	}
}
