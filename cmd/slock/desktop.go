package main

import (
	"errors"
	"io"
	"log"

	"github.com/MatthiasKunnen/slock/internal/config"
	"github.com/MatthiasKunnen/slock/pkg/inhibit"
	"github.com/MatthiasKunnen/slock/pkg/lock"
	"github.com/MatthiasKunnen/slock/pkg/secrets"
)

type keyringLocker interface {
	Lock(paths []string) error
	LockAll() error
	io.Closer
}

// desktop is the optional D-Bus integration. Every part is best-effort: a missing bus or
// service is logged and the lock goes ahead without it.
type desktop struct {
	cfg config.Desktop

	hint      lock.Hint
	inhibitor io.Closer
	sleepLock io.Closer
	keyrings  keyringLocker
}

// openDesktop connects to the buses while the process still has its original credentials and
// takes the sleep-delay lock.
func openDesktop(cfg config.Desktop) *desktop {
	d := &desktop{cfg: cfg}

	if cfg.InhibitSleep {
		inhibitor, err := inhibit.New()
		if err != nil {
			log.Printf("Sleep is not delayed: %v", err)
		} else {
			d.inhibitor = inhibitor
			d.sleepLock, err = inhibitor.Inhibit("slock", "Locking the screen", inhibit.ModeDelay, inhibit.WhatSleep)
			if err != nil {
				log.Printf("Sleep is not delayed: %v", err)
			}
		}
	}

	if cfg.LogindHint {
		hint, err := lock.NewDbusSessionHint(cfg.SessionIDOrEnv())
		if err != nil {
			log.Printf("Locked hint is not published: %v", err)
		} else {
			d.hint = hint
		}
	}

	if len(cfg.LockKeyrings) > 0 {
		keyrings, err := secrets.New()
		if err != nil {
			log.Printf("Keyrings are not locked: %v", err)
		} else {
			d.keyrings = keyrings
		}
	}

	return d
}

// locked runs once every screen is locked.
func (d *desktop) locked() {
	d.releaseSleep()

	if d.hint != nil {
		if err := d.hint.SetLocked(true); err != nil {
			log.Print(err)
		}
	}

	if d.keyrings != nil {
		var err error
		if d.cfg.LockAllKeyrings() {
			err = d.keyrings.LockAll()
		} else {
			err = d.keyrings.Lock(d.cfg.LockKeyrings)
		}
		if err != nil {
			log.Printf("Failed to lock keyrings: %v", err)
		}
	}
}

// unlocked runs after the user authenticated.
func (d *desktop) unlocked() {
	if d.hint != nil {
		if err := d.hint.SetLocked(false); err != nil {
			log.Print(err)
		}
	}
}

func (d *desktop) releaseSleep() {
	if d.sleepLock == nil {
		return
	}
	if err := d.sleepLock.Close(); err != nil {
		log.Printf("Failed to release inhibitor lock: %v", err)
	}
	d.sleepLock = nil
}

func (d *desktop) Close() error {
	d.releaseSleep()

	var err error
	for _, c := range []io.Closer{d.hint, d.inhibitor, d.keyrings} {
		if c != nil {
			err = errors.Join(err, c.Close())
		}
	}

	return err
}
